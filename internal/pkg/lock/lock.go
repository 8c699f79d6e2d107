package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "lock:"

// ErrNotHeld 锁已过期或被他人持有
var ErrNotHeld = errors.New("lock not held")

// RedisLock 基于 SET NX 的分布式锁，用于多副本间互斥执行定时任务
type RedisLock struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisLock 创建锁，ttl 为持有上限
func NewRedisLock(rdb *redis.Client, ttl time.Duration) *RedisLock {
	return &RedisLock{rdb: rdb, ttl: ttl}
}

// Acquire 尝试获取锁，成功时返回持有者 token；已被占用时返回空 token 且 err 为 nil
func (l *RedisLock) Acquire(ctx context.Context, name string) (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate lock token: %w", err)
	}
	token := hex.EncodeToString(bytes)

	ok, err := l.rdb.SetNX(ctx, keyPrefix+name, token, l.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to acquire lock %s: %w", name, err)
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

// Release 释放锁，只删除自己持有的锁
func (l *RedisLock) Release(ctx context.Context, name, token string) error {
	key := keyPrefix + name

	return l.rdb.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return ErrNotHeld
		}
		if err != nil {
			return fmt.Errorf("failed to read lock %s: %w", name, err)
		}
		if val != token {
			return ErrNotHeld
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)
}

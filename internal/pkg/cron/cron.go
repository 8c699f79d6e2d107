package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	robfig "github.com/robfig/cron/v3"
)

const expireLockName = "expire_subscriptions"

// Sweeper 订阅过期扫描
type Sweeper interface {
	ExpireSweep(ctx context.Context) (int64, error)
}

// Locker 多副本互斥，token 为空表示未拿到锁
type Locker interface {
	Acquire(ctx context.Context, name string) (string, error)
	Release(ctx context.Context, name, token string) error
}

type Service struct {
	sweeper  Sweeper
	locker   Locker
	schedule string
	timeout  time.Duration
	logger   *slog.Logger
	cron     *robfig.Cron
}

// NewService locker 可以为 nil（单实例部署）
func NewService(sweeper Sweeper, locker Locker, schedule string, timeout time.Duration, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Service{
		sweeper:  sweeper,
		locker:   locker,
		schedule: schedule,
		timeout:  timeout,
		logger:   logger,
		cron:     robfig.New(),
	}
}

// Start 启动定时任务
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runExpireSweep); err != nil {
		return fmt.Errorf("invalid expire schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("cron service started", "expire_schedule", s.schedule)
	return nil
}

// Stop 停止定时任务，等待正在执行的任务结束
func (s *Service) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("cron service stopped")
}

func (s *Service) runExpireSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.RunNow(ctx); err != nil {
		s.logger.Error("scheduled expire sweep failed", "error", err)
	}
}

// RunNow 立即执行一次过期扫描；其他副本持有锁时跳过并返回 0
func (s *Service) RunNow(ctx context.Context) (int64, error) {
	if s.locker != nil {
		token, err := s.locker.Acquire(ctx, expireLockName)
		if err != nil {
			return 0, err
		}
		if token == "" {
			s.logger.Info("expire sweep skipped, lock held by another instance")
			return 0, nil
		}
		defer func() {
			if err := s.locker.Release(context.Background(), expireLockName, token); err != nil {
				s.logger.Warn("failed to release expire lock", "error", err)
			}
		}()
	}

	n, err := s.sweeper.ExpireSweep(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("expire sweep completed", "expired", n)
	return n, nil
}

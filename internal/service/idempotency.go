package service

import (
	"strings"

	"github.com/google/uuid"
)

// 幂等键的命名空间，改动会使已有的键全部失效
var idempotencyNamespace = uuid.MustParse("6f1c3a52-4d0e-4b8a-9c71-2b5e8f0d4a13")

// idempotencyKey 对相同输入生成相同的键
func idempotencyKey(parts ...string) string {
	return uuid.NewSHA1(idempotencyNamespace, []byte(strings.Join(parts, "\x1f"))).String()
}

package testutil

import (
	"io"
	"log/slog"
)

// DiscardLogger 丢弃所有输出的日志
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Package slog provides logging decorators for rriharvest services.
package slog

import (
	"context"
	"log/slog"
)

// logResult logs msg at debug level, or at warn level when err is set.
func logResult(logger *slog.Logger, msg string, err error, args ...any) {
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelWarn
		args = append(args, "err", err)
	}
	logger.Log(context.Background(), level, msg, args...)
}

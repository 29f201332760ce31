package main

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
	xlogrus "github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
)

func parseLevel(s string) logger.Level {
	switch s {
	case "trace":
		return logger.LevelTrace
	case "debug":
		return logger.LevelDebug
	case "warning":
		return logger.LevelWarning
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func withLogger(ctx context.Context, level string) context.Context {
	l := xlogrus.Default().WithLevel(parseLevel(level))
	return logger.CtxWithLogger(ctx, l)
}

//go:build unix

package main

import (
	"context"
	"os/signal"

	"golang.org/x/sys/unix"
)

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, unix.SIGINT, unix.SIGTERM)
}

//go:build !linux

package tinybt

import (
	"context"

	"github.com/xaionaro-go/gattpad"
)

// Stack is unavailable on this platform; New always fails.
type Stack struct{}

var _ gattpad.Stack = (*Stack)(nil)

func New(ctx context.Context, opts ...Option) (*Stack, error) {
	return nil, ErrUnsupportedPlatform
}

func (*Stack) IsPowered(context.Context) (bool, error) {
	return false, ErrUnsupportedPlatform
}

func (*Stack) AddService(context.Context, *gattpad.Service) error {
	return ErrUnsupportedPlatform
}

func (*Stack) StartAdvertising(context.Context, string, []gattpad.UUID) error {
	return ErrUnsupportedPlatform
}

func (*Stack) Events() <-chan gattpad.Event {
	return nil
}

func (*Stack) Notify(context.Context, gattpad.UUID, []byte) error {
	return ErrUnsupportedPlatform
}

func (*Stack) Close() error {
	return nil
}

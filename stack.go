package gattpad

import (
	"context"
	"fmt"
	"time"
)

// State is the lifecycle state of a Session.
type State int

const (
	StateUnknown State = iota
	StateWaitingPower
	StateRegistering
	StateAdvertising
	StateServing
	StateStopped
	StateFailed
)

func (s State) String() string {
	str := []string{
		"Unknown",
		"WaitingPower",
		"Registering",
		"Advertising",
		"Serving",
		"Stopped",
		"Failed",
	}
	if int(s) < 0 || int(s) >= len(str) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return str[int(s)]
}

// Stack is the BLE stack the peripheral runs on: radio power, the GATT
// database, advertising and the transport of central operations.
type Stack interface {
	ServiceRegistrar

	// IsPowered reports whether the radio is powered on.
	IsPowered(ctx context.Context) (bool, error)

	// StartAdvertising advertises the device name and the specified service UUIDs.
	StartAdvertising(ctx context.Context, name string, uuids []UUID) error

	// Events returns the channel of central operations. The stack closes it on shutdown.
	Events() <-chan Event

	// Notify pushes value to the centrals subscribed to characteristic char.
	Notify(ctx context.Context, char UUID, value []byte) error
}

const (
	DefaultName              = "gattpad"
	DefaultPowerPollInterval = 100 * time.Millisecond
	DefaultPowerOnTimeout    = 10 * time.Second
)

type config struct {
	name              string
	powerPollInterval time.Duration
	powerOnTimeout    time.Duration
	notifyInterval    time.Duration
}

func defaultConfig() config {
	return config{
		name:              DefaultName,
		powerPollInterval: DefaultPowerPollInterval,
		powerOnTimeout:    DefaultPowerOnTimeout,
	}
}

// An Option is a self-referential function, which sets the option specified.
// See http://commandcenter.blogspot.com.au/2014/01/self-referential-functions-and-design.html for more discussion.
type Option func(*config)

// WithName sets the advertised device name.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithPowerPollInterval sets how often the radio power state is polled on startup.
func WithPowerPollInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.powerPollInterval = d
		}
	}
}

// WithPowerOnTimeout sets how long to wait for the radio to power on.
// Zero waits until the context is done.
func WithPowerOnTimeout(d time.Duration) Option {
	return func(c *config) { c.powerOnTimeout = d }
}

// WithNotifyInterval makes the session re-push every published value to
// its subscribers at the given period, in addition to pushes on change.
// Zero disables it.
func WithNotifyInterval(d time.Duration) Option {
	return func(c *config) { c.notifyInterval = d }
}

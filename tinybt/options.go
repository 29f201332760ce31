// Package tinybt runs the peripheral on the host Bluetooth adapter
// through tinygo.org/x/bluetooth (BlueZ on Linux).
package tinybt

import (
	"errors"
	"time"

	"github.com/xaionaro-go/gattpad"
)

var ErrUnsupportedPlatform = errors.New("peripheral mode is not supported on this platform")

const DefaultRefreshInterval = 500 * time.Millisecond

type config struct {
	eventQueueSize  int
	refreshInterval time.Duration
}

func defaultConfig() config {
	return config{
		eventQueueSize:  gattpad.DefaultEventQueueSize,
		refreshInterval: DefaultRefreshInterval,
	}
}

// An Option configures a Stack.
type Option func(*config)

// WithEventQueueSize sets the capacity of the event channel.
func WithEventQueueSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.eventQueueSize = n
		}
	}
}

// WithRefreshInterval sets how often the values of readable,
// non-notifying characteristics are copied to the adapter. BlueZ serves
// reads from the copy, without asking the peripheral.
func WithRefreshInterval(d time.Duration) Option {
	return func(c *config) { c.refreshInterval = d }
}

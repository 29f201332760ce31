// Package hogp implements a gamepad over the HID-over-GATT profile:
// the HID, Battery and Device Information services and their live state.
package hogp

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/gattpad"
	"github.com/xaionaro-go/gattpad/hid"
)

const DefaultBatteryLevel = 90

var ErrBatteryLevel = errors.New("battery level out of range")

type config struct {
	batteryLevel uint8
	deviceInfo   *DeviceInformation
}

// An Option configures a Gamepad.
type Option func(*config)

// WithBatteryLevel sets the initial battery level, 0-100.
func WithBatteryLevel(level uint8) Option {
	return func(c *config) { c.batteryLevel = level }
}

// WithDeviceInformation exposes the Device Information service.
func WithDeviceInformation(info DeviceInformation) Option {
	return func(c *config) { c.deviceInfo = &info }
}

// Gamepad is the state behind the GATT services of a HOGP gamepad.
type Gamepad struct {
	report *hid.Cell

	battery        atomic.Uint32
	batteryChanged chan struct{}

	protocolMode atomic.Uint32
	suspended    atomic.Bool

	services []*gattpad.Service
}

func New(opts ...Option) (*Gamepad, error) {
	cfg := config{batteryLevel: DefaultBatteryLevel}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.batteryLevel > 100 {
		return nil, fmt.Errorf("%w: %d", ErrBatteryLevel, cfg.batteryLevel)
	}

	g := &Gamepad{
		report:         hid.NewCell(),
		batteryChanged: make(chan struct{}, 1),
	}
	g.battery.Store(uint32(cfg.batteryLevel))
	g.protocolMode.Store(uint32(ProtocolModeReport))

	// Some hosts require Battery and Device Information to be
	// registered before HID.
	g.services = append(g.services, g.newBatteryService())
	if cfg.deviceInfo != nil {
		g.services = append(g.services, newDeviceInformationService(*cfg.deviceInfo))
	}
	g.services = append(g.services, g.newHIDService())
	return g, nil
}

// Cell returns the cell holding the current input report.
func (g *Gamepad) Cell() *hid.Cell {
	return g.report
}

// Report returns the current input report.
func (g *Gamepad) Report() hid.Report {
	return g.report.Load()
}

// SetReport replaces the current input report.
func (g *Gamepad) SetReport(r hid.Report) error {
	return g.report.Store(r)
}

// BatteryLevel returns the battery level in percent.
func (g *Gamepad) BatteryLevel() uint8 {
	return uint8(g.battery.Load())
}

// SetBatteryLevel sets the battery level in percent.
func (g *Gamepad) SetBatteryLevel(level uint8) error {
	if level > 100 {
		return fmt.Errorf("%w: %d", ErrBatteryLevel, level)
	}
	if g.battery.Swap(uint32(level)) == uint32(level) {
		return nil
	}
	select {
	case g.batteryChanged <- struct{}{}:
	default:
	}
	return nil
}

// ProtocolMode returns the mode last selected by the host.
func (g *Gamepad) ProtocolMode() ProtocolMode {
	return ProtocolMode(g.protocolMode.Load())
}

// Suspended reports whether the host suspended the device through
// the HID Control Point.
func (g *Gamepad) Suspended() bool {
	return g.suspended.Load()
}

// Services returns the GATT services in registration order.
func (g *Gamepad) Services() []*gattpad.Service {
	return append([]*gattpad.Service{}, g.services...)
}

// Register adds the services to c.
func (g *Gamepad) Register(ctx context.Context, c *gattpad.Catalog) error {
	for _, s := range g.services {
		if err := c.Register(ctx, nil, s); err != nil {
			return fmt.Errorf("unable to register service %s: %w", s.UUID(), err)
		}
	}
	logger.Debugf(ctx, "registered %d gamepad services", len(g.services))
	return nil
}

// Publishers returns the characteristics whose changes are pushed to subscribers.
func (g *Gamepad) Publishers() []gattpad.Publisher {
	return []gattpad.Publisher{
		{
			Service:        gattpad.ServiceHID,
			Characteristic: gattpad.CharReport,
			Changed:        g.report.Changed(),
			Paused:         g.Suspended,
		},
		{
			Service:        gattpad.ServiceBattery,
			Characteristic: gattpad.CharBatteryLevel,
			Changed:        g.batteryChanged,
		},
	}
}

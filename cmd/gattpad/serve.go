package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/gattpad"
	"github.com/xaionaro-go/gattpad/hid"
	"github.com/xaionaro-go/gattpad/hogp"
	"github.com/xaionaro-go/gattpad/input"
	"github.com/xaionaro-go/gattpad/input/keypad"
	"github.com/xaionaro-go/gattpad/tinybt"
)

const (
	inputSweep  = "sweep"
	inputKeypad = "keypad"
	inputNone   = "none"
)

// GamepadFlags configure the emulated gamepad and its session.
type GamepadFlags struct {
	Name           string        `default:"gattpad" env:"GATTPAD_NAME" help:"Advertised device name."`
	DeviceInfo     bool          `name:"device-info" env:"GATTPAD_DEVICE_INFO" help:"Expose the Device Information service."`
	Battery        uint8         `default:"90" env:"GATTPAD_BATTERY" help:"Initial battery level, in percent."`
	Input          string        `default:"sweep" enum:"sweep,keypad,none" env:"GATTPAD_INPUT" help:"Source of the input reports (${enum})."`
	Rate           int           `default:"60" env:"GATTPAD_RATE" help:"Polling rate of the sweep input, in Hz."`
	NotifyInterval time.Duration `name:"notify-interval" help:"Re-send the current values at this period; 0 disables it."`
	PowerTimeout   time.Duration `name:"power-timeout" default:"10s" help:"How long to wait for the radio to power on; 0 waits forever."`
}

func (f *GamepadFlags) gamepad() (*hogp.Gamepad, error) {
	opts := []hogp.Option{hogp.WithBatteryLevel(f.Battery)}
	if f.DeviceInfo {
		opts = append(opts, hogp.WithDeviceInformation(hogp.DefaultDeviceInformation()))
	}
	return hogp.New(opts...)
}

// run serves the gamepad on stack until ctx is done, the keypad quits or
// the session fails. central, if set, runs alongside the session.
func (f *GamepadFlags) run(
	ctx context.Context,
	stack gattpad.Stack,
	central func(ctx context.Context, s *gattpad.Session) error,
) error {
	pad, err := f.gamepad()
	if err != nil {
		return fmt.Errorf("unable to create the gamepad: %w", err)
	}
	catalog := gattpad.NewCatalog()
	if err := pad.Register(ctx, catalog); err != nil {
		return fmt.Errorf("unable to register the gamepad services: %w", err)
	}

	session := gattpad.NewSession(stack, catalog,
		gattpad.WithName(f.Name),
		gattpad.WithNotifyInterval(f.NotifyInterval),
		gattpad.WithPowerOnTimeout(f.PowerTimeout),
	)
	for _, p := range pad.Publishers() {
		session.Publish(p)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- session.Serve(ctx)
		cancel()
	}()
	if central != nil {
		go func() { errCh <- central(ctx, session) }()
	}

	var errs []error
	switch f.Input {
	case inputSweep:
		pump, err := input.NewPump(input.NewSweep(), pad.Cell(), f.Rate)
		if err != nil {
			return err
		}
		if err := pump.Start(ctx); err != nil {
			return fmt.Errorf("unable to start the input pump: %w", err)
		}
		defer pump.Stop()
	case inputKeypad:
		errs = append(errs, keypad.Run(ctx, pad.Cell(), f.Name))
		cancel()
	case inputNone:
	default:
		return fmt.Errorf("unknown input %q", f.Input)
	}

	errs = append(errs, ignoreCanceled(<-errCh))
	if central != nil {
		errs = append(errs, ignoreCanceled(<-errCh))
	}
	return errors.Join(errs...)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ServeCmd runs the gamepad on the host adapter.
type ServeCmd struct {
	GamepadFlags `embed:""`
}

func (c *ServeCmd) Run(ctx context.Context) error {
	stack, err := tinybt.New(ctx)
	if err != nil {
		return err
	}
	defer stack.Close()
	return c.run(ctx, stack, nil)
}

// SimCmd runs the gamepad against the simulated stack, with a central
// that subscribes to the input report and logs every notification.
type SimCmd struct {
	GamepadFlags `embed:""`

	Duration time.Duration `help:"Stop after this long; 0 runs until interrupted."`
}

const simCentral = gattpad.CentralID("sim-central")

func (c *SimCmd) Run(ctx context.Context) error {
	if c.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Duration)
		defer cancel()
	}

	stack := gattpad.NewSimStack()
	defer stack.Close()
	err := c.run(ctx, stack, func(ctx context.Context, s *gattpad.Session) error {
		return simulateCentral(ctx, stack, s)
	})
	if errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func simulateCentral(ctx context.Context, stack *gattpad.SimStack, s *gattpad.Session) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for s.State() != gattpad.StateServing {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	resp, err := stack.Read(ctx, simCentral, gattpad.ServiceHID, gattpad.CharReportMap, 0)
	if err != nil {
		return fmt.Errorf("unable to read the report map: %w", err)
	}
	logger.Infof(ctx, "report map: %d bytes, status %v", len(resp.Value), resp.Status)

	if err := stack.WriteCCC(ctx, simCentral, gattpad.ServiceHID, gattpad.CharReport, gattpad.CCCNotifyFlag); err != nil {
		return fmt.Errorf("unable to subscribe to the input report: %w", err)
	}
	if err := stack.WriteCCC(ctx, simCentral, gattpad.ServiceBattery, gattpad.CharBatteryLevel, gattpad.CCCNotifyFlag); err != nil {
		return fmt.Errorf("unable to subscribe to the battery level: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-stack.Notifications():
			switch n.Characteristic {
			case gattpad.CharReport:
				r, err := hid.Decode(n.Value)
				if err != nil {
					logger.Errorf(ctx, "invalid report %x: %v", n.Value, err)
					continue
				}
				logger.Infof(ctx, "report %x: %s", n.Value, r)
			default:
				logger.Infof(ctx, "%s: %x", n.Characteristic, n.Value)
			}
		}
	}
}

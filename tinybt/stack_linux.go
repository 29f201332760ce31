//go:build linux

package tinybt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/gattpad"
	"tinygo.org/x/bluetooth"
)

var ErrUnknownCharacteristic = errors.New("unknown characteristic")

type charHandle struct {
	ref    charRef
	char   *gattpad.Characteristic
	handle bluetooth.Characteristic

	// last is the value the adapter currently holds.
	last []byte
}

type charRef struct {
	service gattpad.UUID
	char    gattpad.UUID
}

// Stack is a gattpad.Stack on the default adapter of the host.
//
// BlueZ answers reads from a value cache and does not tell the
// peripheral when a central subscribes, so the stack keeps the cache
// fresh and reports a subscription to every notifying characteristic
// when a central connects.
type Stack struct {
	cfg     config
	ctx     context.Context
	adapter *bluetooth.Adapter

	powered atomic.Bool

	locker      sync.RWMutex
	events      chan gattpad.Event
	closed      bool
	handles     map[gattpad.UUID][]*charHandle
	cached      []*charHandle
	refreshOnce sync.Once
}

var _ gattpad.Stack = (*Stack)(nil)

// New returns a Stack on bluetooth.DefaultAdapter. ctx carries the
// logger of the adapter callbacks and bounds the cache refresher.
func New(ctx context.Context, opts ...Option) (*Stack, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Stack{
		cfg:     cfg,
		ctx:     ctx,
		adapter: bluetooth.DefaultAdapter,
		events:  make(chan gattpad.Event, cfg.eventQueueSize),
		handles: make(map[gattpad.UUID][]*charHandle),
	}
	s.adapter.SetConnectHandler(s.onConnect)
	return s, nil
}

// IsPowered enables the adapter; it is powered once Enable succeeds.
func (s *Stack) IsPowered(ctx context.Context) (bool, error) {
	if s.powered.Load() {
		return true, nil
	}
	if err := s.adapter.Enable(); err != nil {
		return false, fmt.Errorf("unable to enable the adapter: %w", err)
	}
	logger.Debugf(ctx, "the adapter is enabled")
	s.powered.Store(true)
	return true, nil
}

func permissions(p gattpad.Property) bluetooth.CharacteristicPermissions {
	var perm bluetooth.CharacteristicPermissions
	if p.Has(gattpad.PropRead) {
		perm |= bluetooth.CharacteristicReadPermission
	}
	if p.Has(gattpad.PropWrite) {
		perm |= bluetooth.CharacteristicWritePermission
	}
	if p.Has(gattpad.PropWriteWithoutResponse) {
		perm |= bluetooth.CharacteristicWriteWithoutResponsePermission
	}
	if p.Has(gattpad.PropNotify) || p.Has(gattpad.PropNotifyEncryptionRequired) {
		perm |= bluetooth.CharacteristicNotifyPermission
	}
	if p.Has(gattpad.PropIndicate) {
		perm |= bluetooth.CharacteristicIndicatePermission
	}
	return perm
}

// AddService adds s to the GATT database of the adapter.
func (s *Stack) AddService(ctx context.Context, svc *gattpad.Service) error {
	bs := &bluetooth.Service{UUID: bluetooth.NewUUID(svc.UUID())}

	var handles []*charHandle
	for _, c := range svc.Characteristics() {
		h := &charHandle{
			ref:  charRef{service: svc.UUID(), char: c.UUID()},
			char: c,
		}
		cfg := bluetooth.CharacteristicConfig{
			Handle: &h.handle,
			UUID:   bluetooth.NewUUID(c.UUID()),
			Flags:  permissions(c.Properties()),
		}
		if c.Properties().Has(gattpad.PropRead) {
			if v, status := c.Value(ctx); status == gattpad.AttrECodeSuccess {
				cfg.Value = v
				h.last = v
			}
		}
		if cfg.Flags.Write() || cfg.Flags.WriteWithoutResponse() {
			cfg.WriteEvent = s.writeEvent(h)
		}
		bs.Characteristics = append(bs.Characteristics, cfg)
		handles = append(handles, h)
	}

	if err := s.adapter.AddService(bs); err != nil {
		return fmt.Errorf("unable to add service %s: %w", svc.UUID(), err)
	}

	s.locker.Lock()
	defer s.locker.Unlock()
	for _, h := range handles {
		u := h.char.UUID()
		s.handles[u] = append(s.handles[u], h)
		props := h.char.Properties()
		if props.Has(gattpad.PropRead) && !props.CanNotify() {
			s.cached = append(s.cached, h)
		}
	}
	logger.Debugf(ctx, "added service %s with %d characteristics", svc.UUID(), len(handles))
	return nil
}

func (s *Stack) writeEvent(h *charHandle) func(client bluetooth.Connection, offset int, value []byte) {
	withoutResponse := !h.char.Properties().Has(gattpad.PropWrite)
	return func(client bluetooth.Connection, offset int, value []byte) {
		ev := gattpad.WriteRequestEvent{
			Request: gattpad.Request{
				Central:        gattpad.CentralID(fmt.Sprintf("conn-%v", client)),
				Service:        h.ref.service,
				Characteristic: h.ref.char,
			},
			Offset:          offset,
			Value:           bytes.Clone(value),
			WithoutResponse: withoutResponse,
		}
		if !withoutResponse {
			// BlueZ has already acknowledged the write.
			ev.Responder = gattpad.NewResponder(func(r gattpad.WriteResponse) error {
				if r.Status != gattpad.AttrECodeSuccess {
					logger.Warnf(s.ctx, "write to %s was refused after it was acknowledged: %v", h.ref.char, r.Status)
				}
				return nil
			})
		}
		s.emit(ev)
	}
}

func (s *Stack) onConnect(device bluetooth.Device, connected bool) {
	central := gattpad.CentralID(device.Address.String())
	if !connected {
		logger.Infof(s.ctx, "central %s disconnected", central)
		s.emit(gattpad.DisconnectEvent{Central: central})
		return
	}
	logger.Infof(s.ctx, "central %s connected", central)

	s.locker.RLock()
	var subs []gattpad.SubscriptionEvent
	for _, hs := range s.handles {
		for _, h := range hs {
			if !h.char.Properties().CanNotify() {
				continue
			}
			subs = append(subs, gattpad.SubscriptionEvent{
				Request: gattpad.Request{
					Central:        central,
					Service:        h.ref.service,
					Characteristic: h.ref.char,
				},
				Subscribed: true,
			})
		}
	}
	s.locker.RUnlock()

	for _, ev := range subs {
		s.emit(ev)
	}
}

func (s *Stack) emit(ev gattpad.Event) {
	s.locker.RLock()
	defer s.locker.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
		logger.Errorf(s.ctx, "the event queue is full, dropping %T", ev)
	}
}

// StartAdvertising advertises name and uuids and starts refreshing the
// cached values of readable characteristics.
func (s *Stack) StartAdvertising(ctx context.Context, name string, uuids []gattpad.UUID) error {
	adv := s.adapter.DefaultAdvertisement()
	opts := bluetooth.AdvertisementOptions{LocalName: name}
	for _, u := range uuids {
		opts.ServiceUUIDs = append(opts.ServiceUUIDs, bluetooth.NewUUID(u))
	}
	if err := adv.Configure(opts); err != nil {
		return fmt.Errorf("unable to configure the advertisement: %w", err)
	}
	if err := adv.Start(); err != nil {
		return fmt.Errorf("unable to start advertising: %w", err)
	}
	logger.Infof(ctx, "advertising %q with %d services", name, len(uuids))

	if s.cfg.refreshInterval > 0 {
		s.refreshOnce.Do(func() { go s.refresh(s.ctx) })
	}
	return nil
}

func (s *Stack) refresh(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.locker.RLock()
		hs := s.cached
		s.locker.RUnlock()
		for _, h := range hs {
			v, status := h.char.Value(ctx)
			if status != gattpad.AttrECodeSuccess || bytes.Equal(v, h.last) {
				continue
			}
			if _, err := h.handle.Write(v); err != nil {
				logger.Errorf(ctx, "unable to refresh %s: %v", h.ref.char, err)
				continue
			}
			h.last = v
		}
	}
}

func (s *Stack) Events() <-chan gattpad.Event {
	return s.events
}

// Notify writes value to every characteristic with UUID char; BlueZ
// notifies the subscribed centrals.
func (s *Stack) Notify(ctx context.Context, char gattpad.UUID, value []byte) error {
	s.locker.RLock()
	hs := s.handles[char]
	s.locker.RUnlock()
	if len(hs) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCharacteristic, char)
	}
	for _, h := range hs {
		if _, err := h.handle.Write(value); err != nil {
			return fmt.Errorf("unable to notify %s: %w", char, err)
		}
	}
	return nil
}

// Close stops delivering events and closes the event channel.
func (s *Stack) Close() error {
	s.locker.Lock()
	defer s.locker.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.events)
	return nil
}

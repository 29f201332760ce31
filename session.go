package gattpad

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
)

var (
	ErrStartupFailure = errors.New("startup failure")
	ErrAlreadyStarted = errors.New("the session was already started")
)

// Publisher is a characteristic whose value is pushed to subscribers
// every time Changed fires.
type Publisher struct {
	Service        UUID
	Characteristic UUID

	// Changed signals that the value changed. Closing it stops the publisher.
	Changed <-chan struct{}

	// Paused, if set, suppresses pushes while it returns true.
	Paused func() bool
}

type publisher struct {
	Publisher
	dirty atomic.Bool
}

// Session is the lifecycle of the peripheral on a Stack: it waits for the
// radio, registers the catalog, advertises, and routes central operations
// until the stack shuts down.
type Session struct {
	cfg     config
	stack   Stack
	catalog *Catalog
	router  *Router
	state   atomic.Int32

	publishers []*publisher
	mutex      sync.Mutex
}

func NewSession(stack Stack, catalog *Catalog, opts ...Option) *Session {
	s := &Session{
		cfg:     defaultConfig(),
		stack:   stack,
		catalog: catalog,
		router:  NewRouter(catalog),
	}
	for _, opt := range opts {
		opt(&s.cfg)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Router returns the router that serves the session's events.
func (s *Session) Router() *Router {
	return s.router
}

// Name returns the advertised device name.
func (s *Session) Name() string {
	return s.cfg.name
}

// Publish registers p. It must be called before Serve.
func (s *Session) Publish(p Publisher) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.publishers = append(s.publishers, &publisher{Publisher: p})
}

func (s *Session) setState(ctx context.Context, st State) {
	old := State(s.state.Swap(int32(st)))
	logger.Debugf(ctx, "session state: %s -> %s", old, st)
}

// Serve runs the session. It returns nil when the stack closes its event
// channel, the context error when ctx is done, and an error wrapping
// ErrStartupFailure if the peripheral could not be brought up.
func (s *Session) Serve(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "Serve")
	defer func() { logger.Tracef(ctx, "/Serve: %v", _err) }()

	if !s.state.CompareAndSwap(int32(StateUnknown), int32(StateWaitingPower)) {
		return ErrAlreadyStarted
	}
	defer func() {
		if _err != nil && errors.Is(_err, ErrStartupFailure) {
			s.setState(ctx, StateFailed)
			return
		}
		s.setState(ctx, StateStopped)
	}()

	if err := s.waitPowered(ctx); err != nil {
		return err
	}

	s.setState(ctx, StateRegistering)
	for _, svc := range s.catalog.Services() {
		if err := addService(ctx, s.stack, svc); err != nil {
			return fmt.Errorf("%w: %w", ErrStartupFailure, err)
		}
		logger.Debugf(ctx, "added service %s to the stack", svc.UUID())
	}

	s.setState(ctx, StateAdvertising)
	uuids := s.catalog.PrimaryUUIDs()
	if err := s.stack.StartAdvertising(ctx, s.cfg.name, uuids); err != nil {
		return fmt.Errorf("%w: unable to start advertising: %w", ErrStartupFailure, err)
	}
	logger.Infof(ctx, "advertising %q with services %v", s.cfg.name, uuids)

	s.setState(ctx, StateServing)
	return s.loop(ctx)
}

func (s *Session) waitPowered(ctx context.Context) error {
	var deadline <-chan time.Time
	if s.cfg.powerOnTimeout > 0 {
		t := time.NewTimer(s.cfg.powerOnTimeout)
		defer t.Stop()
		deadline = t.C
	}
	ticker := time.NewTicker(s.cfg.powerPollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		on, err := s.stack.IsPowered(ctx)
		switch {
		case err != nil:
			logger.Debugf(ctx, "unable to get the power state: %v", err)
			lastErr = err
		case on:
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: waiting for power on: %w", ErrStartupFailure, ctx.Err())
		case <-deadline:
			if lastErr != nil {
				return fmt.Errorf("%w: the radio did not power on within %v: %w", ErrStartupFailure, s.cfg.powerOnTimeout, lastErr)
			}
			return fmt.Errorf("%w: the radio did not power on within %v", ErrStartupFailure, s.cfg.powerOnTimeout)
		case <-ticker.C:
		}
	}
}

func (s *Session) loop(ctx context.Context) error {
	s.mutex.Lock()
	pubs := append([]*publisher{}, s.publishers...)
	s.mutex.Unlock()

	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	kick := make(chan struct{}, 1)
	for _, p := range pubs {
		wg.Add(1)
		go func(p *publisher) {
			defer wg.Done()
			s.watch(ctx, p, kick)
		}(p)
	}

	var tick <-chan time.Time
	if s.cfg.notifyInterval > 0 {
		t := time.NewTicker(s.cfg.notifyInterval)
		defer t.Stop()
		tick = t.C
	}

	events := s.stack.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				logger.Debugf(ctx, "the event channel is closed")
				return nil
			}
			outcome, err := s.router.Dispatch(ctx, ev)
			if err != nil {
				logger.Errorf(ctx, "unable to complete %T: %v", ev, err)
				continue
			}
			logger.Tracef(ctx, "%T: %s", ev, outcome)
		case <-kick:
			for _, p := range pubs {
				if p.dirty.CompareAndSwap(true, false) {
					s.push(ctx, p)
				}
			}
		case <-tick:
			for _, p := range pubs {
				s.push(ctx, p)
			}
		}
	}
}

func (s *Session) watch(ctx context.Context, p *publisher, kick chan<- struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-p.Changed:
			if !ok {
				return
			}
			p.dirty.Store(true)
			select {
			case kick <- struct{}{}:
			default:
			}
		}
	}
}

func (s *Session) push(ctx context.Context, p *publisher) {
	if !s.router.HasSubscribers(p.Service, p.Characteristic) {
		return
	}
	if p.Paused != nil && p.Paused() {
		logger.Tracef(ctx, "publisher %s/%s is paused", p.Service, p.Characteristic)
		return
	}
	c, ok := s.catalog.Lookup(p.Service, p.Characteristic)
	if !ok {
		logger.Errorf(ctx, "published characteristic %s/%s is not in the catalog", p.Service, p.Characteristic)
		return
	}
	v, status := c.Value(ctx)
	if status != StatusSuccess {
		logger.Errorf(ctx, "unable to get the value of %s/%s: %v", p.Service, p.Characteristic, status)
		return
	}
	if err := s.stack.Notify(ctx, p.Characteristic, v); err != nil {
		logger.Errorf(ctx, "unable to notify %s/%s: %v", p.Service, p.Characteristic, err)
	}
}

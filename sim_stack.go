package gattpad

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrStackClosed = errors.New("the stack is closed")

// Notification is a value pushed by the peripheral through Stack.Notify.
type Notification struct {
	Characteristic UUID
	Value          []byte
}

// SimStack is an in-memory Stack. Its Read, Write, WriteCCC and Disconnect
// methods act as connected centrals.
type SimStack struct {
	events        chan Event
	notifications chan Notification

	powerOnAfter int
	polls        int
	rejects      map[UUID]error

	services       []*Service
	advertisedName string
	advertisedUUID []UUID
	closed         bool

	mutex sync.RWMutex
}

// A SimOption configures a SimStack.
type SimOption func(*SimStack)

// SimPowerOnAfter makes IsPowered report false for the first n polls.
func SimPowerOnAfter(n int) SimOption {
	return func(s *SimStack) { s.powerOnAfter = n }
}

// SimRejectService makes AddService of u fail with err.
func SimRejectService(u UUID, err error) SimOption {
	return func(s *SimStack) { s.rejects[u] = err }
}

// SimEventQueueSize sets the capacity of the event and notification channels.
func SimEventQueueSize(n int) SimOption {
	return func(s *SimStack) {
		s.events = make(chan Event, n)
		s.notifications = make(chan Notification, n)
	}
}

func NewSimStack(opts ...SimOption) *SimStack {
	s := &SimStack{
		events:        make(chan Event, DefaultEventQueueSize),
		notifications: make(chan Notification, DefaultEventQueueSize),
		rejects:       make(map[UUID]error),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SimStack) IsPowered(ctx context.Context) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return false, ErrStackClosed
	}
	s.polls++
	return s.polls > s.powerOnAfter, nil
}

func (s *SimStack) AddService(ctx context.Context, svc *Service) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.rejects[svc.UUID()]; err != nil {
		return err
	}
	s.services = append(s.services, svc)
	return nil
}

func (s *SimStack) StartAdvertising(ctx context.Context, name string, uuids []UUID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return ErrStackClosed
	}
	s.advertisedName = name
	s.advertisedUUID = append([]UUID{}, uuids...)
	return nil
}

func (s *SimStack) Events() <-chan Event {
	return s.events
}

func (s *SimStack) Notify(ctx context.Context, char UUID, value []byte) error {
	n := Notification{Characteristic: char, Value: append([]byte{}, value...)}
	select {
	case s.notifications <- n:
		return nil
	default:
		return fmt.Errorf("the notification queue is full, dropping %s", char)
	}
}

// Notifications returns the values pushed through Notify.
func (s *SimStack) Notifications() <-chan Notification {
	return s.notifications
}

// Services returns the services added to the stack, in order.
func (s *SimStack) Services() []*Service {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]*Service{}, s.services...)
}

// Advertisement returns the advertised name and service UUIDs.
func (s *SimStack) Advertisement() (string, []UUID) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.advertisedName, append([]UUID{}, s.advertisedUUID...)
}

// Close closes the event channel, which ends the session.
func (s *SimStack) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return ErrStackClosed
	}
	s.closed = true
	close(s.events)
	return nil
}

func (s *SimStack) send(ctx context.Context, ev Event) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrStackClosed
	}
	select {
	case s.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Read reads a characteristic as central c and waits for the response.
func (s *SimStack) Read(ctx context.Context, c CentralID, svc, char UUID, offset int) (ReadResponse, error) {
	ch := make(chan ReadResponse, 1)
	ev := ReadRequestEvent{
		Request:   Request{Central: c, Service: svc, Characteristic: char},
		Offset:    offset,
		Responder: NewChanResponder[ReadResponse](ch),
	}
	if err := s.send(ctx, ev); err != nil {
		return ReadResponse{}, err
	}
	select {
	case r := <-ch:
		return r, nil
	case <-ctx.Done():
		return ReadResponse{}, ctx.Err()
	}
}

// Write writes a characteristic with response as central c and returns the status.
func (s *SimStack) Write(ctx context.Context, c CentralID, svc, char UUID, value []byte) (AttrECode, error) {
	ch := make(chan WriteResponse, 1)
	ev := WriteRequestEvent{
		Request:   Request{Central: c, Service: svc, Characteristic: char},
		Value:     append([]byte{}, value...),
		Responder: NewChanResponder[WriteResponse](ch),
	}
	if err := s.send(ctx, ev); err != nil {
		return 0, err
	}
	select {
	case r := <-ch:
		return r.Status, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// WriteWithoutResponse enqueues a write command as central c.
func (s *SimStack) WriteWithoutResponse(ctx context.Context, c CentralID, svc, char UUID, value []byte) error {
	return s.send(ctx, WriteRequestEvent{
		Request:         Request{Central: c, Service: svc, Characteristic: char},
		Value:           append([]byte{}, value...),
		WithoutResponse: true,
	})
}

// WriteCCC writes the Client Characteristic Configuration of a
// characteristic as central c; flags is a combination of CCCNotifyFlag
// and CCCIndicateFlag, zero unsubscribes.
func (s *SimStack) WriteCCC(ctx context.Context, c CentralID, svc, char UUID, flags uint16) error {
	return s.send(ctx, SubscriptionEvent{
		Request:    Request{Central: c, Service: svc, Characteristic: char},
		Subscribed: flags&(CCCNotifyFlag|CCCIndicateFlag) != 0,
		Indicate:   flags&CCCIndicateFlag != 0,
	})
}

// Disconnect disconnects central c.
func (s *SimStack) Disconnect(ctx context.Context, c CentralID) error {
	return s.send(ctx, DisconnectEvent{Central: c})
}

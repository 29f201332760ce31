package gattpad

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrResponderFailure = errors.New("unable to deliver the response")
	ErrAlreadyResponded = errors.New("the request was already responded")
)

// ReadResponse answers a read request.
type ReadResponse struct {
	Status AttrECode
	Value  []byte
}

// WriteResponse answers a write request.
type WriteResponse struct {
	Status AttrECode
}

// Responder is a single-use completion handle of a request.
// Only the first Respond delivers; later calls fail with ErrAlreadyResponded.
type Responder[T any] struct {
	sent atomic.Bool
	send func(T) error
}

// NewResponder returns a Responder that delivers through send.
func NewResponder[T any](send func(T) error) *Responder[T] {
	return &Responder[T]{send: send}
}

// NewChanResponder returns a Responder that delivers into ch without blocking;
// ch needs a free slot when the response is sent.
func NewChanResponder[T any](ch chan<- T) *Responder[T] {
	return NewResponder(func(v T) error {
		select {
		case ch <- v:
			return nil
		default:
			return errors.New("the response channel is full")
		}
	})
}

// Respond delivers v.
func (r *Responder[T]) Respond(v T) error {
	if r == nil {
		return fmt.Errorf("%w: no responder", ErrResponderFailure)
	}
	if !r.sent.CompareAndSwap(false, true) {
		return ErrAlreadyResponded
	}
	if err := r.send(v); err != nil {
		return fmt.Errorf("%w: %w", ErrResponderFailure, err)
	}
	return nil
}

// Responded reports whether Respond was called.
func (r *Responder[T]) Responded() bool {
	return r != nil && r.sent.Load()
}

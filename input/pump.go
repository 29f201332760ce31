// Package input feeds gamepad state into a report cell.
package input

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/ctxflow"
	"github.com/xaionaro-go/gattpad/hid"
)

const (
	DefaultRate = 60 // Hz
	MaxRate     = 1000
)

var ErrInvalidRate = errors.New("invalid poll rate")

// Source produces the current gamepad state.
type Source interface {
	Poll(ctx context.Context) (hid.Report, error)
}

// SourceFunc is an adapter to allow the use of ordinary functions as Sources.
type SourceFunc func(ctx context.Context) (hid.Report, error)

// Poll returns f(ctx).
func (f SourceFunc) Poll(ctx context.Context) (hid.Report, error) {
	return f(ctx)
}

// Pump polls a Source at a bounded rate and stores the reports into a Cell.
type Pump struct {
	source   Source
	cell     *hid.Cell
	interval time.Duration

	loop   ctxflow.StartStopper[ctxflow.StartStopperBackendFuncs]
	cancel context.CancelFunc
	done   chan struct{}

	polls    atomic.Uint64
	failures atomic.Uint64
}

// NewPump returns a pump polling src rate times per second.
func NewPump(src Source, cell *hid.Cell, rate int) (*Pump, error) {
	if rate <= 0 || rate > MaxRate {
		return nil, fmt.Errorf("%w: %d Hz, expected 1-%d", ErrInvalidRate, rate, MaxRate)
	}
	p := &Pump{
		source:   src,
		cell:     cell,
		interval: time.Second / time.Duration(rate),
	}
	p.loop = ctxflow.StartStopper[ctxflow.StartStopperBackendFuncs]{
		StartStopper: ctxflow.StartStopperBackendFuncs{
			StartFunc: p.doStart,
			StopFunc:  p.doStop,
		},
	}
	return p, nil
}

// Start starts polling in the background.
func (p *Pump) Start(ctx context.Context) error {
	return p.loop.Start(ctx)
}

// Stop stops polling and waits for the polling goroutine to exit.
func (p *Pump) Stop() error {
	return p.loop.Stop()
}

// Polls returns the number of successful polls.
func (p *Pump) Polls() uint64 {
	return p.polls.Load()
}

// Errors returns the number of failed polls.
func (p *Pump) Errors() uint64 {
	return p.failures.Load()
}

func (p *Pump) doStart(ctx context.Context, _ ...any) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go func() {
		defer close(p.done)
		p.run(ctx)
	}()
	return nil
}

func (p *Pump) doStop(ctx context.Context) error {
	p.cancel()
	<-p.done
	logger.Debugf(ctx, "input pump stopped after %d polls, %d errors", p.Polls(), p.Errors())
	return nil
}

func (p *Pump) run(ctx context.Context) {
	logger.Tracef(ctx, "run")
	defer func() { logger.Tracef(ctx, "/run") }()

	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		p.pollOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (p *Pump) pollOnce(ctx context.Context) {
	r, err := p.source.Poll(ctx)
	if err == nil {
		err = p.cell.Store(r)
	}
	if err != nil {
		if ctx.Err() == nil {
			logger.Debugf(ctx, "unable to poll the input source: %v", err)
		}
		p.failures.Add(1)
		return
	}
	p.polls.Add(1)
}

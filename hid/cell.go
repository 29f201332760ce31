package hid

import (
	"sync"
)

// Cell holds the current report. The last stored report wins; readers
// never see a partially updated report.
type Cell struct {
	mutex   sync.Mutex
	report  Report
	changed chan struct{}
}

// NewCell returns a cell holding the neutral report.
func NewCell() *Cell {
	return &Cell{
		report:  Neutral(),
		changed: make(chan struct{}, 1),
	}
}

// Store replaces the current report. It never blocks.
func (c *Cell) Store(r Report) error {
	if err := r.Validate(); err != nil {
		return err
	}
	c.mutex.Lock()
	c.report = r
	c.mutex.Unlock()
	c.signal()
	return nil
}

// StoreBytes decodes an encoded report and stores it.
// The current report is left unchanged on error.
func (c *Cell) StoreBytes(b []byte) error {
	r, err := Decode(b)
	if err != nil {
		return err
	}
	return c.Store(r)
}

// Update applies f to the current report atomically.
// Nothing is stored if the result is invalid.
func (c *Cell) Update(f func(r *Report)) error {
	c.mutex.Lock()
	r := c.report
	f(&r)
	if err := r.Validate(); err != nil {
		c.mutex.Unlock()
		return err
	}
	unchanged := r == c.report
	c.report = r
	c.mutex.Unlock()
	if !unchanged {
		c.signal()
	}
	return nil
}

// Load returns the current report.
func (c *Cell) Load() Report {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.report
}

// Bytes returns the encoded current report.
func (c *Cell) Bytes() []byte {
	b, err := Encode(c.Load())
	if err != nil {
		// Store and Update validate, so this cannot happen.
		panic(err)
	}
	return b
}

// Changed fires after a store. Stores that happen before the signal is
// consumed are coalesced.
func (c *Cell) Changed() <-chan struct{} {
	return c.changed
}

func (c *Cell) signal() {
	select {
	case c.changed <- struct{}{}:
	default:
	}
}

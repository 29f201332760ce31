package input

import (
	"context"
	"sync"

	"github.com/xaionaro-go/gattpad/hid"
)

// Sweep is a demo Source: the axes sweep back and forth, the hat turns
// around once per sweep and one button at a time is held.
type Sweep struct {
	mutex sync.Mutex
	step  int
}

func NewSweep() *Sweep {
	return &Sweep{}
}

const sweepPeriod = 4 * hid.AxisMax // steps from -AxisMax up and back

func (s *Sweep) Poll(ctx context.Context) (hid.Report, error) {
	s.mutex.Lock()
	step := s.step
	s.step++
	s.mutex.Unlock()
	return SweepReport(step), nil
}

// SweepReport returns the report at the given step of the sweep.
func SweepReport(step int) hid.Report {
	phase := step % sweepPeriod
	v := phase - hid.AxisMax
	if phase >= 2*hid.AxisMax {
		v = 3*hid.AxisMax - phase
	}
	r := hid.Report{
		Hat:  hid.Hat(step / (sweepPeriod / 8) % 8),
		Axes: [hid.NumAxes]int8{int8(v), int8(-v), int8(v / 2), int8(-v / 2)},
	}
	r.SetButton(step/(sweepPeriod/hid.NumButtons)%hid.NumButtons+1, true)
	return r
}

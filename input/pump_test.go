package input

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/gattpad/hid"
)

func TestPump(t *testing.T) {
	ctx := context.Background()
	cell := hid.NewCell()

	var n atomic.Int32
	src := SourceFunc(func(ctx context.Context) (hid.Report, error) {
		i := n.Add(1)
		if i%2 == 0 {
			return hid.Report{}, errors.New("flaky source")
		}
		return hid.Report{Buttons: uint16(i), Hat: hid.HatNone}, nil
	})

	p, err := NewPump(src, cell, MaxRate)
	require.NoError(t, err)
	require.NoError(t, p.Start(ctx))

	require.Eventually(t, func() bool { return p.Polls() >= 3 && p.Errors() >= 3 }, 5*time.Second, time.Millisecond)
	require.NoError(t, p.Stop())

	stopped := n.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stopped, n.Load(), "polled after Stop")
	assert.Equal(t, uint16(1), cell.Load().Buttons%2)
}

func TestPumpRejectsInvalidReports(t *testing.T) {
	cell := hid.NewCell()
	src := SourceFunc(func(ctx context.Context) (hid.Report, error) {
		return hid.Report{Hat: 10}, nil
	})
	p, err := NewPump(src, cell, MaxRate)
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return p.Errors() > 0 }, 5*time.Second, time.Millisecond)
	require.NoError(t, p.Stop())

	assert.Zero(t, p.Polls())
	assert.Equal(t, hid.Neutral(), cell.Load())
}

func TestNewPumpRate(t *testing.T) {
	for _, rate := range []int{0, -1, MaxRate + 1} {
		_, err := NewPump(NewSweep(), hid.NewCell(), rate)
		assert.ErrorIs(t, err, ErrInvalidRate)
	}
	p, err := NewPump(NewSweep(), hid.NewCell(), 50)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, p.interval)
}

func TestSweepStaysInRange(t *testing.T) {
	seenHats := map[hid.Hat]bool{}
	extremes := map[int8]bool{}
	for step := 0; step < 2*sweepPeriod; step++ {
		r := SweepReport(step)
		require.NoError(t, r.Validate(), step)
		_, err := hid.Encode(r)
		require.NoError(t, err)
		seenHats[r.Hat] = true
		extremes[r.Axes[hid.AxisX]] = true
		assert.NotZero(t, r.Buttons)
	}
	assert.Len(t, seenHats, 8)
	assert.True(t, extremes[hid.AxisMax])
	assert.True(t, extremes[hid.AxisMin])

	s := NewSweep()
	r, err := s.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepReport(0), r)
}

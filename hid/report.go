package hid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const (
	ReportID   = 1
	ReportSize = 8 // bytes, including the report ID

	NumButtons = 16
	NumAxes    = 4
	AxisMax    = 127
	AxisMin    = -AxisMax
)

var (
	ErrMalformedReport = errors.New("malformed report")
	ErrAxisRange       = errors.New("axis value out of range")
	ErrHatRange        = errors.New("hat value out of range")
)

// Hat is the direction of the hat switch.
type Hat uint8

const (
	HatNorth Hat = iota
	HatNorthEast
	HatEast
	HatSouthEast
	HatSouth
	HatSouthWest
	HatWest
	HatNorthWest

	// HatNone is the null state: no direction pressed.
	HatNone
)

func (h Hat) String() string {
	switch h {
	case HatNorth:
		return "N"
	case HatNorthEast:
		return "NE"
	case HatEast:
		return "E"
	case HatSouthEast:
		return "SE"
	case HatSouth:
		return "S"
	case HatSouthWest:
		return "SW"
	case HatWest:
		return "W"
	case HatNorthWest:
		return "NW"
	case HatNone:
		return "none"
	default:
		return fmt.Sprintf("Hat(%d)", uint8(h))
	}
}

// Valid reports whether h is a direction or HatNone.
func (h Hat) Valid() bool {
	return h <= HatNone
}

// ParseHat parses a hat position as printed by Hat.String, ignoring case.
func ParseHat(s string) (Hat, error) {
	for h := HatNorth; h <= HatNone; h++ {
		if strings.EqualFold(s, h.String()) {
			return h, nil
		}
	}
	return HatNone, fmt.Errorf("%w: %q", ErrHatRange, s)
}

// HatFromDirection returns the hat position of the pressed directions.
// Opposite directions cancel out.
func HatFromDirection(up, down, left, right bool) Hat {
	dy, dx := 0, 0
	if up {
		dy++
	}
	if down {
		dy--
	}
	if right {
		dx++
	}
	if left {
		dx--
	}
	switch {
	case dy > 0 && dx == 0:
		return HatNorth
	case dy > 0 && dx > 0:
		return HatNorthEast
	case dy == 0 && dx > 0:
		return HatEast
	case dy < 0 && dx > 0:
		return HatSouthEast
	case dy < 0 && dx == 0:
		return HatSouth
	case dy < 0 && dx < 0:
		return HatSouthWest
	case dy == 0 && dx < 0:
		return HatWest
	case dy > 0 && dx < 0:
		return HatNorthWest
	default:
		return HatNone
	}
}

// Axis indexes into Report.Axes.
const (
	AxisX = iota
	AxisY
	AxisZ
	AxisRz
)

// Report is the gamepad state carried by an input report.
type Report struct {
	Buttons uint16 // bit n is button n+1
	Hat     Hat
	Axes    [NumAxes]int8 // X, Y, Z, Rz
}

// Neutral returns a report with nothing pressed and centered axes.
func Neutral() Report {
	return Report{Hat: HatNone}
}

// NewReport validates and builds a report from wider integers.
func NewReport(buttons uint16, hat Hat, axes [NumAxes]int) (Report, error) {
	r := Report{Buttons: buttons, Hat: hat}
	for i, v := range axes {
		if v < AxisMin || v > AxisMax {
			return Report{}, fmt.Errorf("%w: axis %d is %d, expected [%d, %d]", ErrAxisRange, i, v, AxisMin, AxisMax)
		}
		r.Axes[i] = int8(v)
	}
	if err := r.Validate(); err != nil {
		return Report{}, err
	}
	return r, nil
}

// Validate checks the ranges of the hat and the axes.
func (r Report) Validate() error {
	if !r.Hat.Valid() {
		return fmt.Errorf("%w: %d", ErrHatRange, uint8(r.Hat))
	}
	for i, v := range r.Axes {
		if v < AxisMin {
			return fmt.Errorf("%w: axis %d is %d, expected [%d, %d]", ErrAxisRange, i, v, AxisMin, AxisMax)
		}
	}
	return nil
}

// Pressed reports whether button n (1-based) is pressed.
func (r Report) Pressed(n int) bool {
	if n < 1 || n > NumButtons {
		return false
	}
	return r.Buttons&(1<<(n-1)) != 0
}

// SetButton presses or releases button n (1-based).
func (r *Report) SetButton(n int, pressed bool) {
	if n < 1 || n > NumButtons {
		return
	}
	if pressed {
		r.Buttons |= 1 << (n - 1)
	} else {
		r.Buttons &^= 1 << (n - 1)
	}
}

func (r Report) String() string {
	return fmt.Sprintf("buttons=%016b hat=%s axes=%v", r.Buttons, r.Hat, r.Axes)
}

// Encode returns the 8-byte input report of r.
func Encode(r Report) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	b := make([]byte, ReportSize)
	b[0] = ReportID
	binary.LittleEndian.PutUint16(b[1:3], r.Buttons)
	b[3] = byte(r.Hat) & 0x0F
	for i, v := range r.Axes {
		b[4+i] = byte(v)
	}
	return b, nil
}

// Decode parses an input report. It fails with ErrMalformedReport on
// anything the descriptor does not allow.
func Decode(b []byte) (Report, error) {
	if len(b) != ReportSize {
		return Report{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedReport, ReportSize, len(b))
	}
	if b[0] != ReportID {
		return Report{}, fmt.Errorf("%w: report ID %d, expected %d", ErrMalformedReport, b[0], ReportID)
	}
	if b[3]&0xF0 != 0 {
		return Report{}, fmt.Errorf("%w: nonzero padding 0x%x", ErrMalformedReport, b[3]>>4)
	}
	r := Report{
		Buttons: binary.LittleEndian.Uint16(b[1:3]),
		Hat:     Hat(b[3] & 0x0F),
	}
	if !r.Hat.Valid() {
		return Report{}, fmt.Errorf("%w: hat value %d", ErrMalformedReport, r.Hat)
	}
	for i := range r.Axes {
		v := int8(b[4+i])
		if v < AxisMin {
			return Report{}, fmt.Errorf("%w: axis %d is %d", ErrMalformedReport, i, v)
		}
		r.Axes[i] = v
	}
	return r, nil
}

func (r Report) MarshalBinary() ([]byte, error) {
	return Encode(r)
}

func (r *Report) UnmarshalBinary(b []byte) error {
	v, err := Decode(b)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

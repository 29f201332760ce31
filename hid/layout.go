package hid

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrInvalidDescriptor = errors.New("invalid report descriptor")

// Item is a short item of a report descriptor.
type Item struct {
	Type byte
	Tag  byte
	Data []byte
}

// Unsigned returns the item data as an unsigned little-endian value.
func (i Item) Unsigned() uint32 {
	var v uint32
	for n, b := range i.Data {
		v |= uint32(b) << (8 * n)
	}
	return v
}

// Signed returns the item data as a sign-extended little-endian value.
func (i Item) Signed() int32 {
	switch len(i.Data) {
	case 1:
		return int32(int8(i.Data[0]))
	case 2:
		return int32(int16(i.Unsigned()))
	default:
		return int32(i.Unsigned())
	}
}

func (i Item) name() string {
	switch [2]byte{i.Type, i.Tag} {
	case [2]byte{ItemTypeMain, TagInput}:
		return "Input"
	case [2]byte{ItemTypeMain, TagOutput}:
		return "Output"
	case [2]byte{ItemTypeMain, TagFeature}:
		return "Feature"
	case [2]byte{ItemTypeMain, TagCollection}:
		return "Collection"
	case [2]byte{ItemTypeMain, TagEndCollection}:
		return "End Collection"
	case [2]byte{ItemTypeGlobal, TagUsagePage}:
		return "Usage Page"
	case [2]byte{ItemTypeGlobal, TagLogicalMin}:
		return "Logical Minimum"
	case [2]byte{ItemTypeGlobal, TagLogicalMax}:
		return "Logical Maximum"
	case [2]byte{ItemTypeGlobal, TagReportSize}:
		return "Report Size"
	case [2]byte{ItemTypeGlobal, TagReportID}:
		return "Report ID"
	case [2]byte{ItemTypeGlobal, TagReportCount}:
		return "Report Count"
	case [2]byte{ItemTypeGlobal, TagPush}:
		return "Push"
	case [2]byte{ItemTypeGlobal, TagPop}:
		return "Pop"
	case [2]byte{ItemTypeLocal, TagUsage}:
		return "Usage"
	case [2]byte{ItemTypeLocal, TagUsageMin}:
		return "Usage Minimum"
	case [2]byte{ItemTypeLocal, TagUsageMax}:
		return "Usage Maximum"
	default:
		return fmt.Sprintf("Item(type=%d, tag=0x%x)", i.Type, i.Tag)
	}
}

func (i Item) String() string {
	switch {
	case len(i.Data) == 0:
		return i.name()
	case i.Type == ItemTypeGlobal && (i.Tag == TagLogicalMin || i.Tag == TagLogicalMax):
		return fmt.Sprintf("%s (%d)", i.name(), i.Signed())
	case i.Type == ItemTypeMain:
		return fmt.Sprintf("%s (0x%02x)", i.name(), i.Unsigned())
	default:
		return fmt.Sprintf("%s (%d)", i.name(), i.Unsigned())
	}
}

// Bytes returns the encoded item.
func (i Item) Bytes() []byte {
	return shortItem(i.Type, i.Tag, i.Data...)
}

// Items splits a report descriptor into its short items.
// Long items are not supported.
func Items(desc []byte) ([]Item, error) {
	var r []Item
	for off := 0; off < len(desc); {
		prefix := desc[off]
		if prefix == 0xFE {
			return nil, fmt.Errorf("%w: long item at offset %d", ErrInvalidDescriptor, off)
		}
		size := int(prefix & 0x03)
		if size == 3 {
			size = 4
		}
		if off+1+size > len(desc) {
			return nil, fmt.Errorf("%w: truncated item at offset %d", ErrInvalidDescriptor, off)
		}
		r = append(r, Item{
			Type: (prefix >> 2) & 0x03,
			Tag:  prefix >> 4,
			Data: desc[off+1 : off+1+size],
		})
		off += 1 + size
	}
	return r, nil
}

// Field is a run of input report fields sharing the same global state.
type Field struct {
	ReportID   uint8
	UsagePage  uint16
	Usages     []uint16
	BitOffset  int // from the first byte after the report ID
	BitSize    int
	Count      int
	LogicalMin int32
	LogicalMax int32
	Flags      uint32
}

// Constant reports whether the field is padding.
func (f Field) Constant() bool { return f.Flags&FlagConstant != 0 }

// NullState reports whether values outside the logical range mean "no value".
func (f Field) NullState() bool { return f.Flags&FlagNullState != 0 }

func (f Field) String() string {
	if f.Constant() {
		return fmt.Sprintf("bits %d-%d: padding", f.BitOffset, f.BitOffset+f.BitSize*f.Count-1)
	}
	usages := make([]string, 0, len(f.Usages))
	for _, u := range f.Usages {
		usages = append(usages, fmt.Sprintf("0x%02x", u))
	}
	s := fmt.Sprintf("bits %d-%d: page 0x%02x usages [%s] %dx%d bits, range [%d, %d]",
		f.BitOffset, f.BitOffset+f.BitSize*f.Count-1, f.UsagePage, strings.Join(usages, " "),
		f.Count, f.BitSize, f.LogicalMin, f.LogicalMax)
	if f.NullState() {
		s += ", null state"
	}
	return s
}

func (f Field) equal(o Field) bool {
	return f.ReportID == o.ReportID &&
		f.UsagePage == o.UsagePage &&
		slices.Equal(f.Usages, o.Usages) &&
		f.BitOffset == o.BitOffset &&
		f.BitSize == o.BitSize &&
		f.Count == o.Count &&
		f.LogicalMin == o.LogicalMin &&
		f.LogicalMax == o.LogicalMax &&
		f.Flags == o.Flags
}

// Layout is the list of input fields of a descriptor.
type Layout struct {
	Fields []Field
}

// Equal reports whether both layouts describe the same fields.
func (l Layout) Equal(o Layout) bool {
	return slices.EqualFunc(l.Fields, o.Fields, Field.equal)
}

// Bits returns the size of the report with the given ID, excluding the ID byte.
func (l Layout) Bits(id uint8) int {
	n := 0
	for _, f := range l.Fields {
		if f.ReportID == id {
			n += f.BitSize * f.Count
		}
	}
	return n
}

type globalState struct {
	usagePage   uint16
	logicalMin  int32
	logicalMax  int32
	reportSize  int
	reportCount int
	reportID    uint8
}

// ParseLayout walks a report descriptor and returns its input fields.
// Only the items used by simple input devices are interpreted.
func ParseLayout(desc []byte) (Layout, error) {
	ii, err := Items(desc)
	if err != nil {
		return Layout{}, err
	}

	var (
		l        Layout
		g        globalState
		stack    []globalState
		usages   []uint16
		usageMin = -1
		depth    int
		offsets  = map[uint8]int{}
	)
	for n, i := range ii {
		switch i.Type {
		case ItemTypeGlobal:
			switch i.Tag {
			case TagUsagePage:
				g.usagePage = uint16(i.Unsigned())
			case TagLogicalMin:
				g.logicalMin = i.Signed()
			case TagLogicalMax:
				g.logicalMax = i.Signed()
			case TagReportSize:
				g.reportSize = int(i.Unsigned())
			case TagReportCount:
				g.reportCount = int(i.Unsigned())
			case TagReportID:
				if i.Unsigned() == 0 || i.Unsigned() > 0xFF {
					return Layout{}, fmt.Errorf("%w: item %d: report ID %d", ErrInvalidDescriptor, n, i.Unsigned())
				}
				g.reportID = uint8(i.Unsigned())
			case TagPush:
				stack = append(stack, g)
			case TagPop:
				if len(stack) == 0 {
					return Layout{}, fmt.Errorf("%w: item %d: pop without push", ErrInvalidDescriptor, n)
				}
				g, stack = stack[len(stack)-1], stack[:len(stack)-1]
			}
		case ItemTypeLocal:
			switch i.Tag {
			case TagUsage:
				usages = append(usages, uint16(i.Unsigned()))
			case TagUsageMin:
				usageMin = int(i.Unsigned())
			case TagUsageMax:
				if usageMin < 0 || int(i.Unsigned()) < usageMin {
					return Layout{}, fmt.Errorf("%w: item %d: usage maximum without a valid minimum", ErrInvalidDescriptor, n)
				}
				for u := usageMin; u <= int(i.Unsigned()); u++ {
					usages = append(usages, uint16(u))
				}
			}
		case ItemTypeMain:
			switch i.Tag {
			case TagCollection:
				depth++
			case TagEndCollection:
				if depth == 0 {
					return Layout{}, fmt.Errorf("%w: item %d: end of collection without a collection", ErrInvalidDescriptor, n)
				}
				depth--
			case TagInput:
				if g.reportSize == 0 || g.reportCount == 0 {
					return Layout{}, fmt.Errorf("%w: item %d: input without a report size or count", ErrInvalidDescriptor, n)
				}
				f := Field{
					ReportID:   g.reportID,
					UsagePage:  g.usagePage,
					Usages:     usages,
					BitOffset:  offsets[g.reportID],
					BitSize:    g.reportSize,
					Count:      g.reportCount,
					LogicalMin: g.logicalMin,
					LogicalMax: g.logicalMax,
					Flags:      i.Unsigned(),
				}
				if f.Constant() {
					f.UsagePage, f.Usages, f.LogicalMin, f.LogicalMax = 0, nil, 0, 0
				}
				l.Fields = append(l.Fields, f)
				offsets[g.reportID] += g.reportSize * g.reportCount
			}
			usages, usageMin = nil, -1
		default:
			return Layout{}, fmt.Errorf("%w: item %d: reserved item type", ErrInvalidDescriptor, n)
		}
	}
	if depth != 0 {
		return Layout{}, fmt.Errorf("%w: %d unterminated collections", ErrInvalidDescriptor, depth)
	}
	return l, nil
}

// ReportLayout is the layout Encode writes.
func ReportLayout() Layout {
	return Layout{Fields: []Field{
		{
			ReportID:   ReportID,
			UsagePage:  UsagePageButton,
			Usages:     buttonUsages(),
			BitOffset:  0,
			BitSize:    1,
			Count:      NumButtons,
			LogicalMin: 0,
			LogicalMax: 1,
			Flags:      FlagVariable,
		},
		{
			ReportID:   ReportID,
			UsagePage:  UsagePageGenericDesktop,
			Usages:     []uint16{UsageHatSwitch},
			BitOffset:  16,
			BitSize:    4,
			Count:      1,
			LogicalMin: int32(HatNorth),
			LogicalMax: int32(HatNorthWest),
			Flags:      FlagVariable | FlagNullState,
		},
		{
			ReportID:  ReportID,
			BitOffset: 20,
			BitSize:   4,
			Count:     1,
			Flags:     FlagConstant | FlagVariable,
		},
		{
			ReportID:   ReportID,
			UsagePage:  UsagePageGenericDesktop,
			Usages:     []uint16{UsageX, UsageY, UsageZ, UsageRz},
			BitOffset:  24,
			BitSize:    8,
			Count:      NumAxes,
			LogicalMin: AxisMin,
			LogicalMax: AxisMax,
			Flags:      FlagVariable,
		},
	}}
}

func buttonUsages() []uint16 {
	u := make([]uint16, NumButtons)
	for i := range u {
		u[i] = uint16(i + 1)
	}
	return u
}

// checkLayout verifies that the descriptor describes what Encode writes.
func checkLayout(desc []byte) error {
	l, err := ParseLayout(desc)
	if err != nil {
		return err
	}
	if !l.Equal(ReportLayout()) {
		return fmt.Errorf("%w: the descriptor does not match the report encoder", ErrInvalidDescriptor)
	}
	if bits := l.Bits(ReportID); bits != (ReportSize-1)*8 {
		return fmt.Errorf("%w: the descriptor describes %d bits, the report carries %d", ErrInvalidDescriptor, bits, (ReportSize-1)*8)
	}
	// The null state of the hat must be representable in its field.
	hat := l.Fields[1]
	if int32(HatNone) <= hat.LogicalMax || int(HatNone) >= 1<<hat.BitSize {
		return fmt.Errorf("%w: HatNone %d is not a null value of the hat field", ErrInvalidDescriptor, HatNone)
	}
	return nil
}

func init() {
	if err := checkLayout(descriptor); err != nil {
		panic(err)
	}
}

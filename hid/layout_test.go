package hid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayoutMatchesEncoder(t *testing.T) {
	l, err := ParseLayout(Descriptor())
	require.NoError(t, err)
	require.Len(t, l.Fields, 4)
	assert.True(t, l.Equal(ReportLayout()))
	assert.Equal(t, (ReportSize-1)*8, l.Bits(ReportID))
	require.NoError(t, checkLayout(Descriptor()))

	hat := l.Fields[1]
	assert.True(t, hat.NullState())
	assert.Equal(t, int32(7), hat.LogicalMax)
	assert.Equal(t, 4, hat.BitSize)
	assert.True(t, l.Fields[2].Constant())
	assert.Equal(t, int32(-127), l.Fields[3].LogicalMin)
}

func TestCheckLayoutDetectsDrift(t *testing.T) {
	for name, mutate := range map[string]func([]byte) []byte{
		"axis logical minimum": func(b []byte) []byte {
			// 15 81 -> 15 80: -128 is not encodable
			b[55] = 0x80
			return b
		},
		"hat without null state": func(b []byte) []byte {
			b[37] = 0x02
			return b
		},
		"button count": func(b []byte) []byte {
			b[19] = 0x08
			return b
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := checkLayout(mutate(Descriptor()))
			assert.ErrorIs(t, err, ErrInvalidDescriptor)
		})
	}
}

func TestParseLayoutInvalid(t *testing.T) {
	for name, desc := range map[string][]byte{
		"truncated":          {0x05},
		"long item":          {0xFE, 0x00, 0x00},
		"unterminated":       {0xA1, 0x01},
		"unbalanced":         {0xC0},
		"input without size": {0x95, 0x01, 0x81, 0x02},
		"usage maximum only": {0x29, 0x10},
		"pop without push":   {0xB4},
		"reserved item type": {0x0C},
		"zero report id":     {0x85, 0x00},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLayout(desc)
			assert.ErrorIs(t, err, ErrInvalidDescriptor)
		})
	}
}

func TestItems(t *testing.T) {
	ii, err := Items(Descriptor())
	require.NoError(t, err)
	assert.Equal(t, "Usage Page (1)", ii[0].String())
	assert.Equal(t, "Collection (0x01)", ii[2].String())
	assert.Equal(t, "End Collection", ii[len(ii)-1].String())

	var b []byte
	for _, i := range ii {
		b = append(b, i.Bytes()...)
		if i.Tag == TagLogicalMin && i.Type == ItemTypeGlobal && i.Data[0] == 0x81 {
			assert.Equal(t, "Logical Minimum (-127)", i.String())
		}
	}
	assert.Equal(t, Descriptor(), b)
}

package gattpad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDExpansion(t *testing.T) {
	full := MustParseUUID("0000180f-0000-1000-8000-00805f9b34fb")
	assert.Equal(t, full, UUID16(0x180F))
	assert.Equal(t, full, UUID32(0x180F))
	assert.True(t, full.Equal(UUID16(0x180F)))

	short, ok := full.Short()
	require.True(t, ok)
	assert.Equal(t, uint16(0x180F), short)
	assert.Equal(t, "180f", full.String())
}

func TestParseUUID(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want UUID
	}{
		{"180F", UUID16(0x180F)},
		{"0x2a4d", UUID16(0x2A4D)},
		{"00001812", UUID16(0x1812)},
		{"00001812-0000-1000-8000-00805F9B34FB", UUID16(0x1812)},
		{"12345678-1234-5678-1234-56789abcdef0", UUID{0x12, 0x34, 0x56, 0x78, 0x12, 0x34, 0x56, 0x78, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}},
	} {
		t.Run(tc.in, func(t *testing.T) {
			u, err := ParseUUID(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, u)
		})
	}

	for _, in := range []string{"", "18", "zzzz", "1234-5678"} {
		_, err := ParseUUID(in)
		assert.Error(t, err, in)
	}
}

func TestUUIDFromBytes(t *testing.T) {
	u, err := UUIDFromBytes([]byte{0x0F, 0x18})
	require.NoError(t, err)
	assert.Equal(t, ServiceBattery, u)
	assert.Equal(t, []byte{0x0F, 0x18}, u.Bytes())

	long := MustParseUUID("12345678-1234-5678-1234-56789abcdef0")
	back, err := UUIDFromBytes(long.Bytes())
	require.NoError(t, err)
	assert.Equal(t, long, back)

	_, err = UUIDFromBytes([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestUUIDMapKey(t *testing.T) {
	m := map[UUID]string{UUID16(0x1812): "hid"}
	assert.Equal(t, "hid", m[MustParseUUID("00001812-0000-1000-8000-00805f9b34fb")])
}

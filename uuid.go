package gattpad

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UUID is a Bluetooth UUID kept in its canonical 128-bit big-endian form.
// 16-bit and 32-bit assigned numbers are expanded against the Bluetooth
// base UUID on construction, so equivalent UUIDs always compare equal
// and UUID can be used as a map key.
type UUID [16]byte

// baseUUID is 00000000-0000-1000-8000-00805F9B34FB.
var baseUUID = UUID{
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00,
	0x10, 0x00,
	0x80, 0x00,
	0x00, 0x80, 0x5F, 0x9B, 0x34, 0xFB,
}

// UUID16 expands a 16-bit assigned number into a full UUID.
func UUID16(u uint16) UUID {
	return UUID32(uint32(u))
}

// UUID32 expands a 32-bit assigned number into a full UUID.
func UUID32(u uint32) UUID {
	r := baseUUID
	binary.BigEndian.PutUint32(r[:4], u)
	return r
}

// ParseUUID parses a short ("180F", "0000180F") or a full 128-bit UUID string.
func ParseUUID(s string) (UUID, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	switch len(s) {
	case 4, 8:
		b, err := hex.DecodeString(s)
		if err != nil {
			return UUID{}, fmt.Errorf("unable to parse short UUID %q: %w", s, err)
		}
		var u uint32
		for _, c := range b {
			u = u<<8 | uint32(c)
		}
		return UUID32(u), nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("unable to parse UUID %q: %w", s, err)
	}
	return UUID(u), nil
}

// MustParseUUID parses a UUID and panics if it is invalid.
func MustParseUUID(s string) UUID {
	u, err := ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// UUIDFromBytes decodes a UUID in its little-endian wire form.
// Only 2, 4 and 16 byte values are valid.
func UUIDFromBytes(b []byte) (UUID, error) {
	switch len(b) {
	case 2:
		return UUID16(binary.LittleEndian.Uint16(b)), nil
	case 4:
		return UUID32(binary.LittleEndian.Uint32(b)), nil
	case 16:
		var u UUID
		for i := range b {
			u[15-i] = b[i]
		}
		return u, nil
	default:
		return UUID{}, fmt.Errorf("%w: a UUID is 2, 4 or 16 bytes, got %d", ErrInvalidLength, len(b))
	}
}

// Bytes returns the little-endian wire form, using the shortest encoding.
func (u UUID) Bytes() []byte {
	if s, ok := u.Short(); ok {
		return []byte{byte(s), byte(s >> 8)}
	}
	b := make([]byte, 16)
	for i := range u {
		b[15-i] = u[i]
	}
	return b
}

// Short returns the 16-bit assigned number if u is derived from the base UUID.
func (u UUID) Short() (uint16, bool) {
	if u[0] != 0 || u[1] != 0 || [12]byte(u[4:]) != [12]byte(baseUUID[4:]) {
		return 0, false
	}
	return binary.BigEndian.Uint16(u[2:4]), true
}

// Equal reports whether u and v are the same UUID.
func (u UUID) Equal(v UUID) bool {
	return u == v
}

// IsZero reports whether u is the nil UUID.
func (u UUID) IsZero() bool {
	return u == UUID{}
}

func (u UUID) String() string {
	if s, ok := u.Short(); ok {
		return fmt.Sprintf("%04x", s)
	}
	return uuid.UUID(u).String()
}

// UUIDContains reports whether u is in s.
func UUIDContains(s []UUID, u UUID) bool {
	for _, a := range s {
		if a == u {
			return true
		}
	}
	return false
}

var (
	ErrInvalidLength = errors.New("invalid length")
)

package gattpad

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrarFunc func(ctx context.Context, s *Service) error

func (f registrarFunc) AddService(ctx context.Context, s *Service) error { return f(ctx, s) }

func TestCatalogRegister(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog()

	var added []UUID
	reg := registrarFunc(func(ctx context.Context, s *Service) error {
		added = append(added, s.UUID())
		return nil
	})

	battery := NewService(ServiceBattery)
	battery.AddCharacteristic(CharBatteryLevel, PropRead|PropNotify).SetValue([]byte{90})
	require.NoError(t, c.Register(ctx, reg, battery))

	secondary := NewService(UUID16(0xFFF0)).SetPrimary(false)
	secondary.AddCharacteristic(UUID16(0xFFF1), PropRead).SetValue([]byte{1})
	require.NoError(t, c.Register(ctx, reg, secondary))

	hid := NewService(ServiceHID)
	hid.AddCharacteristic(CharProtocolMode, PropRead|PropWriteWithoutResponse).SetValue([]byte{1})
	require.NoError(t, c.Register(ctx, reg, hid))

	assert.Equal(t, []UUID{ServiceBattery, UUID16(0xFFF0), ServiceHID}, added)
	assert.Equal(t, []*Service{battery, secondary, hid}, c.Services())
	assert.Equal(t, []UUID{ServiceBattery, ServiceHID}, c.PrimaryUUIDs())

	ch, ok := c.Lookup(ServiceBattery, CharBatteryLevel)
	require.True(t, ok)
	assert.Equal(t, CharBatteryLevel, ch.UUID())
	assert.Same(t, battery, ch.Service())

	_, ok = c.Lookup(ServiceHID, CharBatteryLevel)
	assert.False(t, ok)

	err := c.Register(ctx, reg, NewService(ServiceBattery))
	assert.ErrorIs(t, err, ErrDuplicateService)
	assert.Len(t, added, 3)
}

func TestCatalogRegisterRejected(t *testing.T) {
	ctx := context.Background()
	errRejected := errors.New("rejected")
	reg := registrarFunc(func(ctx context.Context, s *Service) error { return errRejected })

	c := NewCatalog()

	notifying := NewService(ServiceBattery)
	notifying.AddCharacteristic(CharBatteryLevel, PropRead|PropNotify)
	err := c.Register(ctx, reg, notifying)
	assert.ErrorIs(t, err, ErrInvalidCharacteristic)
	assert.ErrorIs(t, err, errRejected)

	plain := NewService(ServiceDeviceInformation)
	plain.AddCharacteristic(CharModelNumber, PropRead)
	err = c.Register(ctx, reg, plain)
	assert.ErrorIs(t, err, errRejected)
	assert.NotErrorIs(t, err, ErrInvalidCharacteristic)

	assert.Empty(t, c.Services())
	_, ok := c.Lookup(ServiceBattery, CharBatteryLevel)
	assert.False(t, ok)
}

func TestCatalogRegisterEmptyProperties(t *testing.T) {
	s := NewService(ServiceBattery)
	s.AddCharacteristic(CharBatteryLevel, 0)
	err := NewCatalog().Register(context.Background(), nil, s)
	assert.ErrorIs(t, err, ErrInvalidCharacteristic)
}

func TestServiceDuplicateCharacteristic(t *testing.T) {
	s := NewService(ServiceBattery)
	s.AddCharacteristic(CharBatteryLevel, PropRead)
	assert.Panics(t, func() { s.AddCharacteristic(CharBatteryLevel, PropNotify) })
}

func TestCharacteristicValue(t *testing.T) {
	ctx := context.Background()
	s := NewService(ServiceBattery)
	c := s.AddCharacteristic(CharBatteryLevel, PropRead)

	_, status := c.Value(ctx)
	assert.Equal(t, AttrECodeReqNotSupp, status)

	c.SetValue([]byte{50})
	v, status := c.Value(ctx)
	assert.Equal(t, StatusSuccess, status)
	assert.Equal(t, []byte{50}, v)

	c.HandleReadFunc(func(ctx context.Context, resp ResponseWriter, req *ReadRequest) {
		assert.Equal(t, ServiceBattery, req.Service)
		assert.Equal(t, CharBatteryLevel, req.Characteristic)
		resp.SetStatus(AttrECodeUnlikely)
	})
	v, status = c.Value(ctx)
	assert.Equal(t, AttrECodeUnlikely, status)
	assert.Nil(t, v)
}

func TestResponseWriterCapacity(t *testing.T) {
	w := newResponseWriter(2)
	n, err := w.Write([]byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = w.Write([]byte{3})
	assert.Error(t, err)
	assert.Equal(t, []byte{1, 2}, w.bytes())
}

func TestPropertyString(t *testing.T) {
	assert.Equal(t, "None", Property(0).String())
	assert.Equal(t, "Read|Notify", (PropRead | PropNotify).String())
	assert.Equal(t, "Read|NotifyEncryptionRequired", (PropRead | PropNotifyEncryptionRequired).String())
	assert.Equal(t, byte(0x12), (PropRead | PropNotifyEncryptionRequired).Declaration())
	assert.True(t, PropNotifyEncryptionRequired.CanNotify())
	assert.False(t, (PropRead | PropWrite).CanNotify())
}

func TestAttrECodeError(t *testing.T) {
	assert.Equal(t, "request not supported", AttrECodeReqNotSupp.Error())
	assert.Equal(t, "insufficient resources", AttrECodeInsuffResources.Error())
	assert.Equal(t, "application error", AttrECode(0x80).Error())
	assert.Equal(t, "reserved error code", AttrECode(0x20).Error())
}

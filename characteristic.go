package gattpad

import (
	"context"
)

// A Characteristic is a BLE characteristic.
// Its identity and properties are fixed once it is added to a Service;
// its value is either static or produced by a ReadHandler.
type Characteristic struct {
	uuid         UUID
	props        Property
	value        []byte // static value
	readHandler  ReadHandler
	writeHandler WriteHandler

	service *Service
}

// UUID returns the characteristic's UUID.
func (c *Characteristic) UUID() UUID {
	return c.uuid
}

// Properties returns the characteristic's property set.
func (c *Characteristic) Properties() Property {
	return c.props
}

// Service returns the service that owns the characteristic.
func (c *Characteristic) Service() *Service {
	return c.service
}

// SetValue sets a static value served to read requests.
// The value is copied.
func (c *Characteristic) SetValue(b []byte) *Characteristic {
	c.value = append([]byte{}, b...)
	return c
}

// HandleRead routes read requests to h.
// A read handler takes precedence over a static value.
func (c *Characteristic) HandleRead(h ReadHandler) *Characteristic {
	c.readHandler = h
	return c
}

// HandleReadFunc calls HandleRead(ReadHandlerFunc(f)).
func (c *Characteristic) HandleReadFunc(f func(ctx context.Context, resp ResponseWriter, req *ReadRequest)) *Characteristic {
	return c.HandleRead(ReadHandlerFunc(f))
}

// HandleWrite routes write and write-without-response requests to h.
func (c *Characteristic) HandleWrite(h WriteHandler) *Characteristic {
	c.writeHandler = h
	return c
}

// HandleWriteFunc calls HandleWrite(WriteHandlerFunc(f)).
func (c *Characteristic) HandleWriteFunc(f func(ctx context.Context, r Request, data []byte) AttrECode) *Characteristic {
	return c.HandleWrite(WriteHandlerFunc(f))
}

// Value returns the current value, as a read at offset 0 would see it.
func (c *Characteristic) Value(ctx context.Context) ([]byte, AttrECode) {
	req := &ReadRequest{Cap: MaxAttributeValueLength}
	if c.service != nil {
		req.Service = c.service.uuid
	}
	req.Characteristic = c.uuid
	return c.read(ctx, req)
}

func (c *Characteristic) read(ctx context.Context, req *ReadRequest) ([]byte, AttrECode) {
	switch {
	case c.readHandler != nil:
		resp := newResponseWriter(req.Cap)
		c.readHandler.ServeRead(ctx, resp, req)
		if resp.status != StatusSuccess {
			return nil, resp.status
		}
		return resp.bytes(), StatusSuccess
	case c.value != nil:
		return append([]byte{}, c.value...), StatusSuccess
	default:
		return nil, AttrECodeReqNotSupp
	}
}

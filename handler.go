package gattpad

import (
	"bytes"
	"context"
	"fmt"
)

// CentralID identifies a connected central device, e.g. its address.
type CentralID string

// A Request is the context for a request from a connected central.
type Request struct {
	Central        CentralID
	Service        UUID
	Characteristic UUID
}

// A ReadRequest is a characteristic read request from a connected central.
type ReadRequest struct {
	Request
	Cap    int // maximum allowed reply length
	Offset int // requested value offset; the router slices the value, handlers write it whole
}

type ResponseWriter interface {
	// Write writes data to return as the characteristic value.
	Write([]byte) (int, error)

	// SetStatus reports the result of the read operation. See the Status* constants.
	SetStatus(AttrECode)
}

// responseWriter is the default implementation of ResponseWriter.
type responseWriter struct {
	capacity int
	buf      *bytes.Buffer
	status   AttrECode
}

func newResponseWriter(c int) *responseWriter {
	return &responseWriter{
		capacity: c,
		buf:      new(bytes.Buffer),
		status:   StatusSuccess,
	}
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if avail := w.capacity - w.buf.Len(); avail < len(b) {
		return 0, fmt.Errorf("requested write %d bytes, %d available", len(b), avail)
	}
	return w.buf.Write(b)
}

func (w *responseWriter) SetStatus(status AttrECode) { w.status = status }
func (w *responseWriter) bytes() []byte              { return w.buf.Bytes() }

// A ReadHandler handles GATT read requests.
type ReadHandler interface {
	ServeRead(ctx context.Context, resp ResponseWriter, req *ReadRequest)
}

// ReadHandlerFunc is an adapter to allow the use of
// ordinary functions as ReadHandlers. If f is a function
// with the appropriate signature, ReadHandlerFunc(f) is a
// ReadHandler that calls f.
type ReadHandlerFunc func(ctx context.Context, resp ResponseWriter, req *ReadRequest)

// ServeRead returns f(ctx, resp, req).
func (f ReadHandlerFunc) ServeRead(ctx context.Context, resp ResponseWriter, req *ReadRequest) {
	f(ctx, resp, req)
}

// A WriteHandler handles GATT write requests.
// Write and WriteWithoutResponse requests are presented identically;
// the router will ensure that a response is sent if appropriate.
type WriteHandler interface {
	ServeWrite(ctx context.Context, r Request, data []byte) (status AttrECode)
}

// WriteHandlerFunc is an adapter to allow the use of
// ordinary functions as WriteHandlers. If f is a function
// with the appropriate signature, WriteHandlerFunc(f) is a
// WriteHandler that calls f.
type WriteHandlerFunc func(ctx context.Context, r Request, data []byte) AttrECode

// ServeWrite returns f(ctx, r, data).
func (f WriteHandlerFunc) ServeWrite(ctx context.Context, r Request, data []byte) AttrECode {
	return f(ctx, r, data)
}

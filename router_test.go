package gattpad

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testService    = MustParseUUID("6e400001-b5a3-f393-e0a9-e50e24dcca9e")
	testStatic     = UUID16(0xFF01)
	testDynamic    = UUID16(0xFF02)
	testCommand    = UUID16(0xFF03)
	testWritable   = UUID16(0xFF04)
	testNotifying  = UUID16(0xFF05)
	testEmpty      = UUID16(0xFF06)
	testWriteNoCap = UUID16(0xFF07)
)

type testCatalog struct {
	*Catalog
	commands [][]byte
	written  []byte
	counter  byte
}

func newTestCatalog(t *testing.T) *testCatalog {
	tc := &testCatalog{Catalog: NewCatalog()}
	s := NewService(testService)
	s.AddCharacteristic(testStatic, PropRead).SetValue([]byte("hello"))
	s.AddCharacteristic(testDynamic, PropRead).HandleReadFunc(
		func(ctx context.Context, resp ResponseWriter, req *ReadRequest) {
			tc.counter++
			resp.Write([]byte{tc.counter})
		})
	s.AddCharacteristic(testCommand, PropWriteWithoutResponse).HandleWriteFunc(
		func(ctx context.Context, r Request, data []byte) AttrECode {
			tc.commands = append(tc.commands, data)
			return StatusSuccess
		})
	s.AddCharacteristic(testWritable, PropRead|PropWrite).HandleWriteFunc(
		func(ctx context.Context, r Request, data []byte) AttrECode {
			if len(data) != 1 {
				return AttrECodeInvalAttrValueLen
			}
			tc.written = data
			return StatusSuccess
		})
	s.AddCharacteristic(testNotifying, PropRead|PropNotify|PropIndicate).SetValue([]byte{7})
	s.AddCharacteristic(testEmpty, PropRead)
	s.AddCharacteristic(testWriteNoCap, PropWrite)
	require.NoError(t, tc.Register(context.Background(), nil, s))
	return tc
}

func readEvent(c CentralID, svc, char UUID, offset int) (ReadRequestEvent, chan ReadResponse) {
	ch := make(chan ReadResponse, 1)
	return ReadRequestEvent{
		Request:   Request{Central: c, Service: svc, Characteristic: char},
		Offset:    offset,
		Responder: NewChanResponder[ReadResponse](ch),
	}, ch
}

func writeEvent(c CentralID, svc, char UUID, v []byte) (WriteRequestEvent, chan WriteResponse) {
	ch := make(chan WriteResponse, 1)
	return WriteRequestEvent{
		Request:   Request{Central: c, Service: svc, Characteristic: char},
		Value:     v,
		Responder: NewChanResponder[WriteResponse](ch),
	}, ch
}

func TestRouterRead(t *testing.T) {
	ctx := context.Background()
	tc := newTestCatalog(t)
	r := NewRouter(tc.Catalog)

	for _, c := range []struct {
		name    string
		svc     UUID
		char    UUID
		offset  int
		outcome Outcome
		status  AttrECode
		value   []byte
	}{
		{"static", testService, testStatic, 0, OutcomeResponded, StatusSuccess, []byte("hello")},
		{"offset", testService, testStatic, 2, OutcomeResponded, StatusSuccess, []byte("llo")},
		{"offset at end", testService, testStatic, 5, OutcomeResponded, StatusSuccess, []byte{}},
		{"offset past end", testService, testStatic, 100, OutcomeResponded, StatusSuccess, []byte{}},
		{"dynamic", testService, testDynamic, 0, OutcomeResponded, StatusSuccess, []byte{1}},
		{"unknown characteristic", testService, UUID16(0x2A00), 0, OutcomeRejected, AttrECodeReqNotSupp, nil},
		{"unknown service", ServiceDeviceInformation, testStatic, 0, OutcomeRejected, AttrECodeReqNotSupp, nil},
		{"not readable", testService, testCommand, 0, OutcomeRejected, AttrECodeReqNotSupp, nil},
		{"no value source", testService, testEmpty, 0, OutcomeRejected, AttrECodeReqNotSupp, nil},
	} {
		t.Run(c.name, func(t *testing.T) {
			ev, ch := readEvent("central", c.svc, c.char, c.offset)
			outcome, err := r.Dispatch(ctx, ev)
			require.NoError(t, err)
			assert.Equal(t, c.outcome, outcome)
			require.Len(t, ch, 1)
			resp := <-ch
			assert.Equal(t, c.status, resp.Status)
			assert.Equal(t, c.value, resp.Value)
			assert.True(t, ev.Responder.Responded())
		})
	}
}

func TestRouterReadStaticValueIsCopied(t *testing.T) {
	ctx := context.Background()
	r := NewRouter(newTestCatalog(t).Catalog)

	ev, ch := readEvent("central", testService, testStatic, 0)
	_, err := r.Dispatch(ctx, ev)
	require.NoError(t, err)
	(<-ch).Value[0] = 'j'

	ev, ch = readEvent("central", testService, testStatic, 0)
	_, err = r.Dispatch(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), (<-ch).Value)
}

func TestRouterWriteWithoutResponse(t *testing.T) {
	ctx := context.Background()
	tc := newTestCatalog(t)
	r := NewRouter(tc.Catalog)

	ev := WriteRequestEvent{
		Request:         Request{Central: "central", Service: testService, Characteristic: testCommand},
		Value:           []byte{0x01},
		WithoutResponse: true,
	}
	outcome, err := r.Dispatch(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, [][]byte{{0x01}}, tc.commands)

	// A stray responder must never be used for a command.
	ch := make(chan WriteResponse, 1)
	ev.Responder = NewChanResponder[WriteResponse](ch)
	_, err = r.Dispatch(ctx, ev)
	require.NoError(t, err)
	assert.Empty(t, ch)
	assert.False(t, ev.Responder.Responded())

	// Not allowed by the properties: dropped silently.
	ev.Characteristic = testWritable
	outcome, err = r.Dispatch(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, outcome)
	assert.Nil(t, tc.written)
	assert.Empty(t, ch)
}

func TestRouterWrite(t *testing.T) {
	ctx := context.Background()
	tc := newTestCatalog(t)
	r := NewRouter(tc.Catalog)

	for _, c := range []struct {
		name    string
		char    UUID
		value   []byte
		outcome Outcome
		status  AttrECode
	}{
		{"accepted", testWritable, []byte{5}, OutcomeResponded, StatusSuccess},
		{"handler status", testWritable, []byte{5, 6}, OutcomeResponded, AttrECodeInvalAttrValueLen},
		{"write without response only", testCommand, []byte{1}, OutcomeRejected, AttrECodeReqNotSupp},
		{"read only", testStatic, []byte{1}, OutcomeRejected, AttrECodeReqNotSupp},
		{"no handler", testWriteNoCap, []byte{1}, OutcomeRejected, AttrECodeReqNotSupp},
		{"unknown", UUID16(0x2A00), []byte{1}, OutcomeRejected, AttrECodeReqNotSupp},
	} {
		t.Run(c.name, func(t *testing.T) {
			ev, ch := writeEvent("central", testService, c.char, c.value)
			outcome, err := r.Dispatch(ctx, ev)
			require.NoError(t, err)
			assert.Equal(t, c.outcome, outcome)
			require.Len(t, ch, 1)
			assert.Equal(t, c.status, (<-ch).Status)
		})
	}
	assert.Equal(t, []byte{5}, tc.written)
	assert.Empty(t, tc.commands)
}

func TestRouterWriteOffset(t *testing.T) {
	ctx := context.Background()
	tc := newTestCatalog(t)
	r := NewRouter(tc.Catalog)

	ev, ch := writeEvent("central", testService, testWritable, []byte{5})
	ev.Offset = 1
	outcome, err := r.Dispatch(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeResponded, outcome)
	assert.Equal(t, AttrECodeInvalidOffset, (<-ch).Status)
	assert.Nil(t, tc.written)
}

func TestRouterSubscriptions(t *testing.T) {
	ctx := context.Background()
	r := NewRouter(newTestCatalog(t).Catalog)

	sub := func(c CentralID, char UUID, on, indicate bool) Outcome {
		outcome, err := r.Dispatch(ctx, SubscriptionEvent{
			Request:    Request{Central: c, Service: testService, Characteristic: char},
			Subscribed: on,
			Indicate:   indicate,
		})
		require.NoError(t, err)
		return outcome
	}

	assert.Equal(t, OutcomeRejected, sub("a", testStatic, true, false))
	assert.False(t, r.HasSubscribers(testService, testStatic))

	assert.Equal(t, OutcomeApplied, sub("b", testNotifying, true, true))
	assert.Equal(t, OutcomeApplied, sub("a", testNotifying, true, false))
	assert.Equal(t, []Subscriber{
		{Central: "a"},
		{Central: "b", Indicate: true},
	}, r.Subscribers(testService, testNotifying))

	assert.Equal(t, OutcomeApplied, sub("a", testNotifying, false, false))
	assert.Equal(t, []Subscriber{{Central: "b", Indicate: true}}, r.Subscribers(testService, testNotifying))

	outcome, err := r.Dispatch(ctx, DisconnectEvent{Central: "b"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.False(t, r.HasSubscribers(testService, testNotifying))
	assert.Empty(t, r.Subscribers(testService, testNotifying))
}

func TestRouterResponderFailure(t *testing.T) {
	ctx := context.Background()
	r := NewRouter(newTestCatalog(t).Catalog)

	ev, ch := readEvent("central", testService, testStatic, 0)
	ch <- ReadResponse{} // fills the channel
	_, err := r.Dispatch(ctx, ev)
	assert.ErrorIs(t, err, ErrResponderFailure)

	ev, _ = readEvent("central", testService, testStatic, 0)
	require.NoError(t, ev.Responder.Respond(ReadResponse{}))
	_, err = r.Dispatch(ctx, ev)
	assert.ErrorIs(t, err, ErrAlreadyResponded)

	ev.Responder = nil
	_, err = r.Dispatch(ctx, ev)
	assert.ErrorIs(t, err, ErrResponderFailure)
}

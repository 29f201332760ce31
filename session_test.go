package gattpad

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, stackOpts []SimOption, opts ...Option) (*Session, *SimStack, *testCatalog) {
	tc := newTestCatalog(t)
	stack := NewSimStack(stackOpts...)
	opts = append([]Option{WithPowerPollInterval(time.Millisecond)}, opts...)
	return NewSession(stack, tc.Catalog, opts...), stack, tc
}

func serve(ctx context.Context, s *Session) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx) }()
	return errCh
}

func TestSessionServe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, stack, tc := newTestSession(t, []SimOption{SimPowerOnAfter(3)}, WithName("pad"))
	assert.Equal(t, StateUnknown, s.State())
	errCh := serve(ctx, s)

	resp, err := stack.Read(ctx, "c", testService, testStatic, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, []byte("hello"), resp.Value)
	assert.Equal(t, StateServing, s.State())

	name, uuids := stack.Advertisement()
	assert.Equal(t, "pad", name)
	assert.Equal(t, []UUID{testService}, uuids)
	assert.Equal(t, tc.Services(), stack.Services())

	status, err := stack.Write(ctx, "c", testService, testWritable, []byte{9})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, status)
	assert.Equal(t, []byte{9}, tc.written)

	resp, err = stack.Read(ctx, "c", ServiceDeviceInformation, CharModelNumber, 0)
	require.NoError(t, err)
	assert.Equal(t, AttrECodeReqNotSupp, resp.Status)
	assert.Empty(t, resp.Value)

	assert.ErrorIs(t, s.Serve(ctx), ErrAlreadyStarted)

	require.NoError(t, stack.Close())
	require.NoError(t, <-errCh)
	assert.Equal(t, StateStopped, s.State())
}

func TestSessionPowerOnTimeout(t *testing.T) {
	s, _, _ := newTestSession(t,
		[]SimOption{SimPowerOnAfter(1 << 30)},
		WithPowerOnTimeout(20*time.Millisecond),
	)
	err := s.Serve(context.Background())
	assert.ErrorIs(t, err, ErrStartupFailure)
	assert.Equal(t, StateFailed, s.State())
}

func TestSessionRegistrationFailure(t *testing.T) {
	errRejected := errors.New("rejected")
	s, stack, _ := newTestSession(t, []SimOption{SimRejectService(testService, errRejected)})
	err := s.Serve(context.Background())
	assert.ErrorIs(t, err, ErrStartupFailure)
	assert.ErrorIs(t, err, ErrInvalidCharacteristic)
	assert.ErrorIs(t, err, errRejected)

	name, _ := stack.Advertisement()
	assert.Empty(t, name)
}

func TestSessionContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, stack, _ := newTestSession(t, nil)
	errCh := serve(ctx, s)

	_, err := stack.Read(ctx, "c", testService, testStatic, 0)
	require.NoError(t, err)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}

func TestSessionPublish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, stack, tc := newTestSession(t, nil)
	changed := make(chan struct{}, 1)
	var paused atomic.Bool
	s.Publish(Publisher{
		Service:        testService,
		Characteristic: testNotifying,
		Changed:        changed,
		Paused:         paused.Load,
	})
	errCh := serve(ctx, s)

	c, ok := tc.Lookup(testService, testNotifying)
	require.True(t, ok)

	require.NoError(t, stack.WriteCCC(ctx, "c", testService, testNotifying, CCCNotifyFlag))
	require.Eventually(t, func() bool {
		return s.Router().HasSubscribers(testService, testNotifying)
	}, time.Second, time.Millisecond)

	c.SetValue([]byte{42})
	changed <- struct{}{}
	select {
	case n := <-stack.Notifications():
		assert.Equal(t, testNotifying, n.Characteristic)
		assert.Equal(t, []byte{42}, n.Value)
	case <-ctx.Done():
		t.Fatal("no notification")
	}

	paused.Store(true)
	changed <- struct{}{}
	require.NoError(t, stack.Disconnect(ctx, "c"))
	require.Eventually(t, func() bool {
		return !s.Router().HasSubscribers(testService, testNotifying)
	}, time.Second, time.Millisecond)
	assert.Empty(t, stack.Notifications())

	// No subscribers: nothing is pushed.
	paused.Store(false)
	changed <- struct{}{}
	_, err := stack.Read(ctx, "c", testService, testStatic, 0)
	require.NoError(t, err)
	assert.Empty(t, stack.Notifications())

	require.NoError(t, stack.Close())
	require.NoError(t, <-errCh)
}

func TestSessionNotifyInterval(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, stack, _ := newTestSession(t, nil, WithNotifyInterval(time.Millisecond))
	s.Publish(Publisher{
		Service:        testService,
		Characteristic: testNotifying,
		Changed:        make(chan struct{}),
	})
	errCh := serve(ctx, s)
	require.NoError(t, stack.WriteCCC(ctx, "c", testService, testNotifying, CCCNotifyFlag))

	for i := 0; i < 3; i++ {
		select {
		case n := <-stack.Notifications():
			assert.Equal(t, []byte{7}, n.Value)
		case <-ctx.Done():
			t.Fatal("no notification")
		}
	}

	require.NoError(t, stack.Close())
	require.NoError(t, <-errCh)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Serving", StateServing.String())
	assert.Equal(t, "State(42)", State(42).String())
}

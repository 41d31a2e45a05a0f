package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/client"
	"storefront/internal/model"
)

func TestResolvePrefersDemoOrder(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(ctx)
	require.NoError(t, sess.EnableDemoMode(ctx))
	require.NoError(t, sess.AppendDemoOrder(ctx, &model.Order{
		ID:     "123456",
		Status: model.OrderPending,
		Demo:   true,
	}))

	// GetOrder has no hook: reaching the backend would fail the test
	gw := &fakeGateway{}
	reconciler := NewOrderReconciler(gw, NewPaymentService(gw), nil, time.Millisecond, 0)

	order, err := reconciler.Resolve(ctx, sess, "123456")
	require.NoError(t, err)
	assert.True(t, order.Demo)
	assert.Equal(t, model.PaymentApproved, order.PaymentStatus, "payment status merged from the payment view")
}

func TestResolveBackendOrder(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(ctx)

	gw := &fakeGateway{
		getOrder: func(ctx context.Context, token, orderID string) (*model.Order, error) {
			assert.Equal(t, "token-1", token)
			return &model.Order{ID: orderID, Status: model.OrderConfirmed}, nil
		},
	}
	reconciler := NewOrderReconciler(gw, NewPaymentService(gw), nil, time.Millisecond, 0)

	order, err := reconciler.Resolve(ctx, sess, "o200")
	require.NoError(t, err)
	assert.Equal(t, model.OrderConfirmed, order.Status)
}

func TestResolveUnknownOrder(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(ctx)

	gw := &fakeGateway{
		getOrder: func(ctx context.Context, token, orderID string) (*model.Order, error) {
			return nil, &client.StatusError{Code: http.StatusNotFound, Body: "no such order"}
		},
	}
	reconciler := NewOrderReconciler(gw, NewPaymentService(gw), nil, time.Millisecond, 0)

	_, err := reconciler.Resolve(ctx, sess, "nope")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestWatchPaymentStopsOnTerminalStatus(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(ctx)
	require.NoError(t, sess.EnableDemoMode(ctx))

	// demo session with no local record: the first poll synthesizes an
	// APPROVED payment, which is terminal
	gw := &fakeGateway{}
	reconciler := NewOrderReconciler(gw, NewPaymentService(gw), nil, time.Millisecond, 0)

	updates, cancel, err := reconciler.WatchPayment(ctx, sess, "o1")
	require.NoError(t, err)
	defer cancel()

	select {
	case u, ok := <-updates:
		require.True(t, ok)
		assert.Equal(t, "o1", u.OrderID)
		assert.Equal(t, model.PaymentApproved, u.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("no update before timeout")
	}

	select {
	case _, ok := <-updates:
		assert.False(t, ok, "channel closes after a terminal status")
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after terminal status")
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/client"
	"storefront/internal/model"
	"storefront/internal/session"
	"storefront/internal/store"
	"storefront/internal/watch"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderReconciler assembles the order + payment view the success and details
// pages show. Sources in priority order: the session's demo orders, then the
// live backend. Payment status is watched over websocket with a polling
// fallback.
type OrderReconciler struct {
	orders       OrderSource
	payments     *PaymentService
	pushWatcher  watch.Watcher
	pollInterval time.Duration
	watchTimeout time.Duration
}

// OrderSource is the slice of the gateway the reconciler needs.
type OrderSource interface {
	GetOrder(ctx context.Context, token, orderID string) (*model.Order, error)
}

func NewOrderReconciler(orders OrderSource, payments *PaymentService, pushWatcher watch.Watcher, pollInterval, watchTimeout time.Duration) *OrderReconciler {
	return &OrderReconciler{
		orders:       orders,
		payments:     payments,
		pushWatcher:  pushWatcher,
		pollInterval: pollInterval,
		watchTimeout: watchTimeout,
	}
}

func (r *OrderReconciler) Resolve(ctx context.Context, sess *session.Session, orderID string) (*model.Order, error) {
	if order, err := sess.FindDemoOrder(ctx, orderID); err == nil {
		// a demo order never reached the backend; its local record is the truth
		payment, perr := r.payments.Status(ctx, sess, "order/"+orderID)
		if perr == nil {
			order.PaymentStatus = payment.Status
		}
		return order, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	order, err := r.orders.GetOrder(ctx, sess.Token(ctx), orderID)
	if err != nil {
		var se *client.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("resolve order %s: %w", orderID, err)
	}
	return order, nil
}

func (r *OrderReconciler) ResolvePayment(ctx context.Context, sess *session.Session, orderID string) (*model.Payment, error) {
	return r.payments.Status(ctx, sess, "order/"+orderID)
}

// WatchPayment streams payment status updates for an order until a terminal
// status or cancellation. The returned cancel must be called to release the
// underlying socket or polling loop.
func (r *OrderReconciler) WatchPayment(ctx context.Context, sess *session.Session, orderID string) (<-chan watch.Update, context.CancelFunc, error) {
	var cancel context.CancelFunc
	if r.watchTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.watchTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	poll := watch.NewPollWatcher(r.pollInterval, func(ctx context.Context, id string) (model.PaymentStatus, error) {
		payment, err := r.payments.Status(ctx, sess, "order/"+id)
		if err != nil {
			return "", err
		}
		return payment.Status, nil
	})

	var watcher watch.Watcher = poll
	if r.pushWatcher != nil {
		watcher = watch.NewFallbackWatcher(r.pushWatcher, poll)
	}

	updates, err := watcher.Watch(ctx, orderID)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return updates, cancel, nil
}

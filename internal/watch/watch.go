// Package watch resolves a payment's status over time. The payment service
// pushes updates over a per-order websocket channel; when the socket cannot
// be established the watcher falls back to fixed-interval polling. Both
// implementations sit behind the same interface and stop on context
// cancellation or on the first terminal status.
package watch

import (
	"context"

	"storefront/internal/model"
)

type Update struct {
	OrderID string              `json:"orderId"`
	Status  model.PaymentStatus `json:"status"`
}

// Watcher streams payment status updates for one order. The returned channel
// closes after a terminal status, on context cancellation, or when the
// underlying source fails.
type Watcher interface {
	Watch(ctx context.Context, orderID string) (<-chan Update, error)
}

// StatusFunc fetches the current payment status for an order.
type StatusFunc func(ctx context.Context, orderID string) (model.PaymentStatus, error)

package watch

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"storefront/internal/model"
)

// PushWatcher subscribes to the payment service's per-order websocket
// channel (/ws/payments/{orderId}).
type PushWatcher struct {
	dialer  *websocket.Dialer
	baseURL string
}

func NewPushWatcher(baseURL string) *PushWatcher {
	return &PushWatcher{dialer: websocket.DefaultDialer, baseURL: baseURL}
}

func (w *PushWatcher) Watch(ctx context.Context, orderID string) (<-chan Update, error) {
	conn, resp, err := w.dialer.DialContext(ctx, fmt.Sprintf("%s/ws/payments/%s", w.baseURL, orderID), nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("dial payment socket: %w", err)
	}

	ch := make(chan Update, 1)
	done := make(chan struct{})

	// ReadJSON has no context support; close the socket to unblock it.
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	go func() {
		defer close(ch)
		defer close(done)
		defer conn.Close()

		for {
			var msg struct {
				Status string `json:"status"`
			}
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}

			update := Update{OrderID: orderID, Status: model.PaymentStatus(msg.Status)}
			select {
			case ch <- update:
			case <-ctx.Done():
				return
			}
			if update.Status.Terminal() {
				return
			}
		}
	}()

	return ch, nil
}

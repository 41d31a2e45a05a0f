package watch

import (
	"context"
	"time"
)

// PollWatcher checks the payment status at a fixed interval. Fetch errors are
// skipped and the next tick tries again, matching the polling loop the
// checkout page ran.
type PollWatcher struct {
	interval time.Duration
	status   StatusFunc
}

func NewPollWatcher(interval time.Duration, status StatusFunc) *PollWatcher {
	return &PollWatcher{interval: interval, status: status}
}

func (w *PollWatcher) Watch(ctx context.Context, orderID string) (<-chan Update, error) {
	ch := make(chan Update, 1)

	go func() {
		defer close(ch)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			status, err := w.status(ctx, orderID)
			if err != nil {
				continue
			}

			select {
			case ch <- Update{OrderID: orderID, Status: status}:
			case <-ctx.Done():
				return
			}
			if status.Terminal() {
				return
			}
		}
	}()

	return ch, nil
}

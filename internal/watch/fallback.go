package watch

import "context"

// FallbackWatcher prefers the push channel and degrades to polling when the
// socket cannot be dialed or dies before a terminal status arrives.
type FallbackWatcher struct {
	push Watcher
	poll Watcher
}

func NewFallbackWatcher(push, poll Watcher) *FallbackWatcher {
	return &FallbackWatcher{push: push, poll: poll}
}

func (w *FallbackWatcher) Watch(ctx context.Context, orderID string) (<-chan Update, error) {
	pushCh, err := w.push.Watch(ctx, orderID)
	if err != nil {
		return w.poll.Watch(ctx, orderID)
	}

	out := make(chan Update, 1)
	go func() {
		defer close(out)

		for update := range pushCh {
			select {
			case out <- update:
			case <-ctx.Done():
				return
			}
			if update.Status.Terminal() {
				return
			}
		}
		if ctx.Err() != nil {
			return
		}

		// socket closed without a terminal status
		pollCh, err := w.poll.Watch(ctx, orderID)
		if err != nil {
			return
		}
		for update := range pollCh {
			select {
			case out <- update:
			case <-ctx.Done():
				return
			}
			if update.Status.Terminal() {
				return
			}
		}
	}()

	return out, nil
}

package store

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Subscription delivers full snapshots of a query. Every snapshot replaces
// the previous one; a slow reader only ever sees the latest.
type Subscription struct {
	C <-chan []Document

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Close stops the subscription and releases backend resources. It is safe
// to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Done is closed once the subscription has stopped
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// FetchFunc loads the current result set of a query
type FetchFunc func(ctx context.Context) ([]Document, error)

// Watch builds a subscription that fetches an initial snapshot and then
// refetches on every signal from changes. release is called once after
// the subscription stops. Backends feed changes from their own change
// notifications.
func Watch(ctx context.Context, log *zap.Logger, fetch FetchFunc, changes <-chan struct{}, release func()) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan []Document, 1)
	sub := &Subscription{C: out, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		defer close(out)
		if release != nil {
			defer release()
		}

		push := func() {
			docs, err := fetch(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn("snapshot fetch failed", zap.Error(err))
				}
				return
			}
			if docs == nil {
				docs = []Document{}
			}
			// drop a pending stale snapshot so the newest wins
			select {
			case <-out:
			default:
			}
			select {
			case out <- docs:
			case <-ctx.Done():
			}
		}

		push()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				push()
			}
		}
	}()

	return sub
}

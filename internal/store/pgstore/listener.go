package pgstore

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// notifyChannel must match the trigger in migrations/002_document_notify.sql
const notifyChannel = "document_changes"

// listener holds one LISTEN connection and fans notifications out to
// every watcher of the changed collection.
type listener struct {
	pool *pgxpool.Pool
	log  *zap.Logger

	mu       sync.Mutex
	watchers map[string]map[int]chan struct{}
	next     int
	cancel   context.CancelFunc
	done     chan struct{}
}

func newListener(pool *pgxpool.Pool, log *zap.Logger) *listener {
	return &listener{
		pool:     pool,
		log:      log.Named("listener"),
		watchers: make(map[string]map[int]chan struct{}),
	}
}

// watch registers a watcher and starts the LISTEN loop on first use
func (l *listener) watch(collection string) (<-chan struct{}, func(), error) {
	ch := make(chan struct{}, 1)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		l.cancel = cancel
		l.done = make(chan struct{})
		go l.run(ctx)
	}

	if l.watchers[collection] == nil {
		l.watchers[collection] = make(map[int]chan struct{})
	}
	key := l.next
	l.next++
	l.watchers[collection][key] = ch

	release := func() {
		l.mu.Lock()
		delete(l.watchers[collection], key)
		l.mu.Unlock()
	}
	return ch, release, nil
}

func (l *listener) run(ctx context.Context) {
	defer close(l.done)

	for ctx.Err() == nil {
		if err := l.listen(ctx); err != nil && ctx.Err() == nil {
			l.log.Warn("listen connection lost, reconnecting", zap.Error(err))
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
			}
		}
	}
}

func (l *listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return err
	}
	l.log.Info("listening for document changes")
	l.signalAll()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.signal(n.Payload)
	}
}

func (l *listener) signal(collection string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.watchers[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// signalAll wakes every watcher so changes missed while disconnected are re-fetched
func (l *listener) signalAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, watchers := range l.watchers {
		for _, ch := range watchers {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

func (l *listener) stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

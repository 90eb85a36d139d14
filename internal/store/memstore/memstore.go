// Package memstore is an in-process document store. It backs the
// "memory" store backend for local runs and every service test.
package memstore

import (
	"context"
	"sort"
	"sync"

	"floor-backend/internal/store"

	"go.uber.org/zap"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]*record
	watchers    map[string]map[int]chan struct{}
	nextWatcher int
	seq         int64
	log         *zap.Logger
}

// record keeps insertion order so unordered queries are stable
type record struct {
	seq    int64
	fields map[string]any
}

func New(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		collections: make(map[string]map[string]*record),
		watchers:    make(map[string]map[int]chan struct{}),
		log:         log.Named("memstore"),
	}
}

func (s *Store) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ids, err := s.CreateMany(ctx, collection, []map[string]any{fields})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (s *Store) CreateMany(ctx context.Context, collection string, docs []map[string]any) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	coll := s.collection(collection)
	ids := make([]string, 0, len(docs))
	for _, fields := range docs {
		id := store.NewID()
		s.seq++
		coll[id] = &record{seq: s.seq, fields: copyFields(fields)}
		ids = append(ids, id)
	}
	s.mu.Unlock()

	s.notify(collection)
	return ids, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &store.Document{ID: id, Fields: copyFields(rec.fields)}, nil
}

func (s *Store) Find(ctx context.Context, q store.Query) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]*record, 0)
	ids := make(map[*record]string)
	for id, rec := range s.collections[q.Collection] {
		if store.Matches(q, rec.fields) {
			matched = append(matched, rec)
			ids[rec] = id
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })
	docs := make([]store.Document, 0, len(matched))
	for _, rec := range matched {
		docs = append(docs, store.Document{ID: ids[rec], Fields: copyFields(rec.fields)})
	}
	s.mu.RUnlock()

	store.SortDocuments(docs, q.OrderBy, q.Desc)
	return store.ApplyLimit(docs, q.Limit), nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	rec, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	for k, v := range fields {
		rec.fields[k] = v
	}
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.collections[collection][id]; !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	delete(s.collections[collection], id)
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) Subscribe(ctx context.Context, q store.Query) (*store.Subscription, error) {
	changes := make(chan struct{}, 1)

	s.mu.Lock()
	if s.watchers[q.Collection] == nil {
		s.watchers[q.Collection] = make(map[int]chan struct{})
	}
	key := s.nextWatcher
	s.nextWatcher++
	s.watchers[q.Collection][key] = changes
	s.mu.Unlock()

	release := func() {
		s.mu.Lock()
		delete(s.watchers[q.Collection], key)
		s.mu.Unlock()
	}

	fetch := func(ctx context.Context) ([]store.Document, error) {
		return s.Find(ctx, q)
	}
	return store.Watch(ctx, s.log, fetch, changes, release), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() {}

func (s *Store) collection(name string) map[string]*record {
	coll, ok := s.collections[name]
	if !ok {
		coll = make(map[string]*record)
		s.collections[name] = coll
	}
	return coll
}

// notify wakes every watcher of a collection. Signals coalesce: a watcher
// with a pending signal is not signalled twice.
func (s *Store) notify(collection string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.watchers[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

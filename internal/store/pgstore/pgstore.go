// Package pgstore keeps documents as JSONB rows in PostgreSQL and turns
// LISTEN/NOTIFY into query subscriptions.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"floor-backend/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Store struct {
	DB       *pgxpool.Pool
	log      *zap.Logger
	listener *listener
}

func New(pool *pgxpool.Pool, log *zap.Logger) *Store {
	log = log.Named("pgstore")
	return &Store{
		DB:       pool,
		log:      log,
		listener: newListener(pool, log),
	}
}

func (s *Store) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	data, err := json.Marshal(encodeFields(fields))
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}

	id := store.NewID()
	query := `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`
	if _, err := s.DB.Exec(ctx, query, collection, id, data); err != nil {
		return "", fmt.Errorf("insert %s document: %w", collection, err)
	}
	return id, nil
}

// CreateMany writes every document in one transaction
func (s *Store) CreateMany(ctx context.Context, collection string, docs []map[string]any) ([]string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	ids := make([]string, 0, len(docs))
	for _, fields := range docs {
		data, err := json.Marshal(encodeFields(fields))
		if err != nil {
			return nil, fmt.Errorf("encode %s document: %w", collection, err)
		}
		id := store.NewID()
		ids = append(ids, id)
		batch.Queue(`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`, collection, id, data)
	}

	results := tx.SendBatch(ctx, batch)
	for range ids {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return nil, fmt.Errorf("batch insert %s: %w", collection, err)
		}
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("batch insert %s: %w", collection, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit batch insert: %w", err)
	}
	return ids, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`

	var raw []byte
	err := s.DB.QueryRow(ctx, query, collection, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	doc := &store.Document{ID: id}
	if err := json.Unmarshal(raw, &doc.Fields); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *Store) Find(ctx context.Context, q store.Query) ([]store.Document, error) {
	query, args := buildFind(q)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", q.Collection, err)
	}
	defer rows.Close()

	docs := make([]store.Document, 0)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.Collection, err)
		}
		doc := store.Document{ID: id}
		if err := json.Unmarshal(raw, &doc.Fields); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", q.Collection, id, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Update merges fields into the stored document
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	data, err := json.Marshal(encodeFields(fields))
	if err != nil {
		return fmt.Errorf("encode %s update: %w", collection, err)
	}

	query := `
		UPDATE documents
		SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`
	tag, err := s.DB.Exec(ctx, query, collection, id, data)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Subscribe(ctx context.Context, q store.Query) (*store.Subscription, error) {
	changes, release, err := s.listener.watch(q.Collection)
	if err != nil {
		return nil, err
	}
	fetch := func(ctx context.Context) ([]store.Document, error) {
		return s.Find(ctx, q)
	}
	return store.Watch(ctx, s.log, fetch, changes, release), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

func (s *Store) Close() {
	s.listener.stop()
	s.DB.Close()
}

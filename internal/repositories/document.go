package repositories

import (
	"context"
	"time"

	"floor-backend/internal/store"
)

func getAs[T any](ctx context.Context, s store.Store, collection, id string) (*T, error) {
	doc, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	var out T
	if err := store.Decode(*doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func decodeAll[T any](docs []store.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := store.Decode(doc, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func findAs[T any](ctx context.Context, s store.Store, q store.Query) ([]T, error) {
	docs, err := s.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](docs)
}

// windowQuery adds the common line / window filters on createdAt
func windowQuery(q store.Query, lineID, sessionID string, from, to time.Time) store.Query {
	if lineID != "" {
		q = q.With("productionLineId", lineID)
	}
	if sessionID != "" {
		q = q.With("sessionId", sessionID)
	}
	if !from.IsZero() || !to.IsZero() {
		if to.IsZero() {
			to = time.Now().Add(time.Minute)
		}
		q.Range = &store.TimeRange{Field: "createdAt", From: from, To: to}
	}
	return q
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Collection names
const (
	Lines     = "production_lines"
	Schedules = "schedules"
	Sessions  = "production_sessions"
	Machines  = "machines"
	Downtime  = "downtime_records"
	Quality   = "quality_issues"
	Users     = "users"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = errors.New("document not found")

// Document is a single record in a collection. Fields holds the record
// body; time values are stored as time.Time on write.
type Document struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Filter is an equality predicate on a top-level field
type Filter struct {
	Field string
	Value any
}

// TimeRange bounds a timestamp field to [From, To)
type TimeRange struct {
	Field string
	From  time.Time
	To    time.Time
}

// Query selects documents from one collection
type Query struct {
	Collection string
	Where      []Filter
	Range      *TimeRange
	OrderBy    string
	Desc       bool
	Limit      int
}

// Store is the document store used by every repository.
type Store interface {
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	// CreateMany inserts all documents or none of them
	CreateMany(ctx context.Context, collection string, docs []map[string]any) ([]string, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	Find(ctx context.Context, q Query) ([]Document, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	// Subscribe streams full result snapshots of q until the returned
	// subscription is closed or ctx is done.
	Subscribe(ctx context.Context, q Query) (*Subscription, error)
	Ping(ctx context.Context) error
	Close()
}

// NewID returns a fresh document identifier
func NewID() string {
	return uuid.NewString()
}

// With returns a copy of q with an extra equality filter
func (q Query) With(field string, value any) Query {
	q.Where = append(append([]Filter(nil), q.Where...), Filter{Field: field, Value: value})
	return q
}

// Decode maps a document onto a typed record. The id is written into the
// "id" field of the target.
func Decode(doc Document, v any) error {
	body := make(map[string]any, len(doc.Fields)+1)
	for k, val := range doc.Fields {
		body[k] = val
	}
	body["id"] = doc.ID

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	return nil
}

// Matches reports whether a document satisfies the filters and range of q.
// Backends that evaluate queries in process use it directly.
func Matches(q Query, fields map[string]any) bool {
	for _, f := range q.Where {
		if !equalValues(fields[f.Field], f.Value) {
			return false
		}
	}
	if q.Range != nil {
		t, ok := AsTime(fields[q.Range.Field])
		if !ok {
			return false
		}
		if t.Before(q.Range.From) || !t.Before(q.Range.To) {
			return false
		}
	}
	return true
}

// AsTime converts a stored field value to a time
func AsTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ta, ok := AsTime(a); ok {
		if tb, ok := AsTime(b); ok {
			return ta.Equal(tb)
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

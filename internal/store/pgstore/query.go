package pgstore

import (
	"fmt"
	"strings"
	"time"

	"floor-backend/internal/store"
)

// timeLayout is fixed width in UTC so text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// buildFind renders a query against the documents table. Field names are
// always passed as parameters, never spliced into the SQL text.
func buildFind(q store.Query) (string, []any) {
	var sb strings.Builder
	args := []any{q.Collection}

	sb.WriteString("SELECT id, data FROM documents WHERE collection = $1")

	for _, f := range q.Where {
		args = append(args, f.Field, textValue(f.Value))
		fmt.Fprintf(&sb, " AND data->>$%d::text = $%d::text", len(args)-1, len(args))
	}

	if q.Range != nil {
		args = append(args, q.Range.Field, q.Range.From.UTC(), q.Range.To.UTC())
		n := len(args)
		fmt.Fprintf(&sb, " AND (data->>$%d::text)::timestamptz >= $%d AND (data->>$%d::text)::timestamptz < $%d",
			n-2, n-1, n-2, n)
	}

	if q.OrderBy != "" {
		args = append(args, q.OrderBy)
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY data->>$%d::text %s, created_at, id", len(args), dir)
	} else {
		sb.WriteString(" ORDER BY created_at, id")
	}

	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}

	return sb.String(), args
}

// encodeFields prepares a field map for JSONB storage
func encodeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch t := v.(type) {
		case time.Time:
			out[k] = t.UTC().Format(timeLayout)
		case *time.Time:
			if t == nil {
				out[k] = nil
			} else {
				out[k] = t.UTC().Format(timeLayout)
			}
		default:
			out[k] = v
		}
	}
	return out
}

func textValue(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(timeLayout)
	case string:
		return t
	}
	return fmt.Sprint(v)
}

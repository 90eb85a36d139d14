package handlers

import (
	"net/http"
	"net/url"
	"time"

	"floor-backend/pkg/utils"
)

// timeParams reads RFC3339 values for names. On a malformed value it
// answers 400 and returns false.
func timeParams(w http.ResponseWriter, q url.Values, names ...string) ([]time.Time, bool) {
	out := make([]time.Time, len(names))
	for i, name := range names {
		v := q.Get(name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.FieldError(w, http.StatusBadRequest, "validation failed", map[string]string{name: "must be an RFC3339 timestamp"})
			return nil, false
		}
		out[i] = t
	}
	return out, true
}

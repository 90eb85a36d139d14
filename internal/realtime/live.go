package realtime

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"floor-backend/internal/metrics"
	"floor-backend/internal/store"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// liveCollections are the collections clients may watch
var liveCollections = map[string]bool{
	store.Lines:     true,
	store.Schedules: true,
	store.Sessions:  true,
	store.Machines:  true,
	store.Downtime:  true,
	store.Quality:   true,
}

// reserved query parameters that are not filters
var reservedParams = map[string]bool{
	"token": true,
	"limit": true,
	"order": true,
	"desc":  true,
}

// Snapshot is one full result set of a live query
type Snapshot struct {
	Collection string           `json:"collection"`
	Documents  []map[string]any `json:"documents"`
	At         time.Time        `json:"at"`
}

// LiveFeed serves store subscriptions over WebSockets
type LiveFeed struct {
	Store store.Store
	log   *zap.Logger
}

func NewLiveFeed(s store.Store, log *zap.Logger) *LiveFeed {
	return &LiveFeed{Store: s, log: log.Named("live")}
}

// QueryFromRequest builds a query from /ws/live/{collection}?field=value.
// Unknown collections return false.
func QueryFromRequest(r *http.Request) (store.Query, bool) {
	collection := mux.Vars(r)["collection"]
	if !liveCollections[collection] {
		return store.Query{}, false
	}

	params := r.URL.Query()
	q := store.Query{Collection: collection, OrderBy: "createdAt", Desc: true}
	if order := params.Get("order"); order != "" {
		q.OrderBy = order
		q.Desc = params.Get("desc") == "true"
	}
	if n, err := strconv.Atoi(params.Get("limit")); err == nil && n > 0 {
		q.Limit = n
	}

	for field, values := range params {
		if reservedParams[field] || len(values) == 0 {
			continue
		}
		q = q.With(field, values[0])
	}
	return q, true
}

// ServeWS streams snapshots until the client goes away
func (f *LiveFeed) ServeWS(w http.ResponseWriter, r *http.Request) {
	q, ok := QueryFromRequest(r)
	if !ok {
		http.Error(w, "unknown collection", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub, err := f.Store.Subscribe(ctx, q)
	if err != nil {
		f.log.Error("subscribe failed", zap.String("collection", q.Collection), zap.Error(err))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"))
		return
	}
	defer sub.Close()

	metrics.LiveSubscribers.WithLabelValues(q.Collection).Inc()
	defer metrics.LiveSubscribers.WithLabelValues(q.Collection).Dec()

	// the client only sends control frames; a read error means it is gone
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case docs, ok := <-sub.C:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snapshot(q.Collection, docs)); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func snapshot(collection string, docs []store.Document) Snapshot {
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		flat := make(map[string]any, len(d.Fields)+1)
		for k, v := range d.Fields {
			flat[k] = v
		}
		flat["id"] = d.ID
		out = append(out, flat)
	}
	return Snapshot{Collection: collection, Documents: out, At: time.Now().UTC()}
}

package repositories

import (
	"context"
	"time"

	"floor-backend/internal/models"
	"floor-backend/internal/store"
)

type SessionRepository struct {
	Store store.Store
}

func NewSessionRepository(s store.Store) *SessionRepository {
	return &SessionRepository{Store: s}
}

func (r *SessionRepository) Create(ctx context.Context, s *models.ProductionSession) error {
	id, err := r.Store.Create(ctx, store.Sessions, s.Fields())
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*models.ProductionSession, error) {
	return getAs[models.ProductionSession](ctx, r.Store, store.Sessions, id)
}

// List returns sessions newest first, filtered by line and status when set
func (r *SessionRepository) List(ctx context.Context, lineID, status string) ([]models.ProductionSession, error) {
	q := store.Query{Collection: store.Sessions, OrderBy: "startedAt", Desc: true}
	if lineID != "" {
		q = q.With("productionLineId", lineID)
	}
	if status != "" {
		q = q.With("status", status)
	}
	return findAs[models.ProductionSession](ctx, r.Store, q)
}

// StartedBetween returns sessions that started in [from, to)
func (r *SessionRepository) StartedBetween(ctx context.Context, lineID string, from, to time.Time) ([]models.ProductionSession, error) {
	q := store.Query{
		Collection: store.Sessions,
		Range:      &store.TimeRange{Field: "startedAt", From: from, To: to},
	}
	if lineID != "" {
		q = q.With("productionLineId", lineID)
	}
	return findAs[models.ProductionSession](ctx, r.Store, q)
}

func (r *SessionRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.Store.Update(ctx, store.Sessions, id, fields)
}

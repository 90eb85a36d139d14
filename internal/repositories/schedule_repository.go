package repositories

import (
	"context"

	"floor-backend/internal/models"
	"floor-backend/internal/store"
)

type ScheduleRepository struct {
	Store store.Store
}

func NewScheduleRepository(s store.Store) *ScheduleRepository {
	return &ScheduleRepository{Store: s}
}

func (r *ScheduleRepository) Create(ctx context.Context, s *models.Schedule) error {
	id, err := r.Store.Create(ctx, store.Schedules, s.Fields())
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func (r *ScheduleRepository) Get(ctx context.Context, id string) (*models.Schedule, error) {
	return getAs[models.Schedule](ctx, r.Store, store.Schedules, id)
}

// List returns schedules by shift start, optionally for one line
func (r *ScheduleRepository) List(ctx context.Context, lineID string) ([]models.Schedule, error) {
	q := store.Query{Collection: store.Schedules, OrderBy: "shiftStart"}
	if lineID != "" {
		q = q.With("productionLineId", lineID)
	}
	return findAs[models.Schedule](ctx, r.Store, q)
}

func (r *ScheduleRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.Store.Update(ctx, store.Schedules, id, fields)
}

func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	return r.Store.Delete(ctx, store.Schedules, id)
}

package repositories

import (
	"context"

	"floor-backend/internal/models"
	"floor-backend/internal/store"
)

type DowntimeRepository struct {
	Store store.Store
}

func NewDowntimeRepository(s store.Store) *DowntimeRepository {
	return &DowntimeRepository{Store: s}
}

func (r *DowntimeRepository) Create(ctx context.Context, d *models.DowntimeRecord) error {
	id, err := r.Store.Create(ctx, store.Downtime, d.Fields())
	if err != nil {
		return err
	}
	d.ID = id
	return nil
}

// Get loads a record with its boundary defaults applied
func (r *DowntimeRepository) Get(ctx context.Context, id string) (*models.DowntimeRecord, error) {
	rec, err := getAs[models.DowntimeRecord](ctx, r.Store, store.Downtime, id)
	if err != nil {
		return nil, err
	}
	rec.Normalize()
	return rec, nil
}

// Query builds the store query for a filter; live streams reuse it
func (r *DowntimeRepository) Query(f models.DowntimeFilter) store.Query {
	q := windowQuery(store.Query{Collection: store.Downtime, OrderBy: "createdAt", Desc: true},
		f.ProductionLineID, f.SessionID, f.From, f.To)
	if f.Type != "" {
		q = q.With("type", f.Type)
	}
	if f.Status != "" {
		q = q.With("status", f.Status)
	}
	return q
}

// List returns normalized records matching f, newest first
func (r *DowntimeRepository) List(ctx context.Context, f models.DowntimeFilter) ([]models.DowntimeRecord, error) {
	records, err := findAs[models.DowntimeRecord](ctx, r.Store, r.Query(f))
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Normalize()
	}
	return records, nil
}

func (r *DowntimeRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.Store.Update(ctx, store.Downtime, id, fields)
}

func (r *DowntimeRepository) Delete(ctx context.Context, id string) error {
	return r.Store.Delete(ctx, store.Downtime, id)
}

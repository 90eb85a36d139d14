package repositories

import (
	"context"
	"time"

	"floor-backend/internal/models"
	"floor-backend/internal/store"
)

type LineRepository struct {
	Store store.Store
}

func NewLineRepository(s store.Store) *LineRepository {
	return &LineRepository{Store: s}
}

func (r *LineRepository) Create(ctx context.Context, l *models.ProductionLine) error {
	id, err := r.Store.Create(ctx, store.Lines, l.Fields())
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

// CreateMany inserts all lines atomically and fills their ids
func (r *LineRepository) CreateMany(ctx context.Context, lines []*models.ProductionLine) error {
	docs := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		docs = append(docs, l.Fields())
	}
	ids, err := r.Store.CreateMany(ctx, store.Lines, docs)
	if err != nil {
		return err
	}
	for i, id := range ids {
		lines[i].ID = id
	}
	return nil
}

func (r *LineRepository) Get(ctx context.Context, id string) (*models.ProductionLine, error) {
	return getAs[models.ProductionLine](ctx, r.Store, store.Lines, id)
}

func (r *LineRepository) List(ctx context.Context) ([]models.ProductionLine, error) {
	return findAs[models.ProductionLine](ctx, r.Store, store.Query{Collection: store.Lines, OrderBy: "name"})
}

// CodeExists reports whether a line already uses code
func (r *LineRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	docs, err := r.Store.Find(ctx, store.Query{Collection: store.Lines, Limit: 1}.With("code", code))
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

func (r *LineRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	fields["updatedAt"] = time.Now().UTC()
	return r.Store.Update(ctx, store.Lines, id, fields)
}

func (r *LineRepository) Delete(ctx context.Context, id string) error {
	return r.Store.Delete(ctx, store.Lines, id)
}

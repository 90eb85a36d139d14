package repositories

import (
	"context"

	"floor-backend/internal/models"
	"floor-backend/internal/store"
)

type QualityRepository struct {
	Store store.Store
}

func NewQualityRepository(s store.Store) *QualityRepository {
	return &QualityRepository{Store: s}
}

func (r *QualityRepository) Create(ctx context.Context, q *models.QualityIssue) error {
	id, err := r.Store.Create(ctx, store.Quality, q.Fields())
	if err != nil {
		return err
	}
	q.ID = id
	return nil
}

func (r *QualityRepository) Query(f models.QualityFilter) store.Query {
	q := windowQuery(store.Query{Collection: store.Quality, OrderBy: "createdAt", Desc: true},
		f.ProductionLineID, f.SessionID, f.From, f.To)
	if f.Kind != "" {
		q = q.With("kind", f.Kind)
	}
	return q
}

// List returns normalized issues matching f, newest first
func (r *QualityRepository) List(ctx context.Context, f models.QualityFilter) ([]models.QualityIssue, error) {
	issues, err := findAs[models.QualityIssue](ctx, r.Store, r.Query(f))
	if err != nil {
		return nil, err
	}
	for i := range issues {
		issues[i].Normalize()
	}
	return issues, nil
}

func (r *QualityRepository) Delete(ctx context.Context, id string) error {
	return r.Store.Delete(ctx, store.Quality, id)
}

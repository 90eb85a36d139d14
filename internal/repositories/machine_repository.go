package repositories

import (
	"context"

	"floor-backend/internal/models"
	"floor-backend/internal/store"
)

type MachineRepository struct {
	Store store.Store
}

func NewMachineRepository(s store.Store) *MachineRepository {
	return &MachineRepository{Store: s}
}

func (r *MachineRepository) Create(ctx context.Context, m *models.Machine) error {
	id, err := r.Store.Create(ctx, store.Machines, m.Fields())
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

// CreateMany inserts all machines atomically and fills their ids
func (r *MachineRepository) CreateMany(ctx context.Context, machines []*models.Machine) error {
	docs := make([]map[string]any, 0, len(machines))
	for _, m := range machines {
		docs = append(docs, m.Fields())
	}
	ids, err := r.Store.CreateMany(ctx, store.Machines, docs)
	if err != nil {
		return err
	}
	for i, id := range ids {
		machines[i].ID = id
	}
	return nil
}

func (r *MachineRepository) Get(ctx context.Context, id string) (*models.Machine, error) {
	return getAs[models.Machine](ctx, r.Store, store.Machines, id)
}

// List returns machines, optionally only those on one line
func (r *MachineRepository) List(ctx context.Context, lineID string) ([]models.Machine, error) {
	q := store.Query{Collection: store.Machines, OrderBy: "assetNumber"}
	if lineID != "" {
		q = q.With("productionLineId", lineID)
	}
	return findAs[models.Machine](ctx, r.Store, q)
}

// AssetNumbers returns the set of asset numbers already registered
func (r *MachineRepository) AssetNumbers(ctx context.Context) (map[string]bool, error) {
	machines, err := findAs[models.Machine](ctx, r.Store, store.Query{Collection: store.Machines})
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(machines))
	for _, m := range machines {
		out[m.AssetNumber] = true
	}
	return out, nil
}

func (r *MachineRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.Store.Update(ctx, store.Machines, id, fields)
}

func (r *MachineRepository) Delete(ctx context.Context, id string) error {
	return r.Store.Delete(ctx, store.Machines, id)
}

package services

import (
	"context"
	"fmt"
	"time"

	"floor-backend/internal/models"
	"floor-backend/internal/repositories"
)

type MachineService struct {
	Repo *repositories.MachineRepository
}

func NewMachineService(repo *repositories.MachineRepository) *MachineService {
	return &MachineService{Repo: repo}
}

func (s *MachineService) CreateMachine(ctx context.Context, req *models.CreateMachineRequest) (*models.Machine, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.Repo.AssetNumbers(ctx)
	if err != nil {
		return nil, err
	}
	if existing[req.AssetNumber] {
		return nil, fmt.Errorf("asset number %s %w", req.AssetNumber, ErrConflict)
	}

	m := newMachine(req)
	if err := s.Repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func newMachine(req *models.CreateMachineRequest) *models.Machine {
	status := req.Status
	if status == "" {
		status = models.MachineActive
	}
	return &models.Machine{
		AssetNumber:      req.AssetNumber,
		Name:             req.Name,
		Type:             req.Type,
		ProductionLineID: req.ProductionLineID,
		Status:           status,
		CreatedAt:        time.Now().UTC(),
	}
}

func (s *MachineService) GetMachine(ctx context.Context, id string) (*models.Machine, error) {
	return s.Repo.Get(ctx, id)
}

func (s *MachineService) ListMachines(ctx context.Context, lineID string) ([]models.Machine, error) {
	return s.Repo.List(ctx, lineID)
}

func (s *MachineService) UpdateMachine(ctx context.Context, id string, req *models.UpdateMachineRequest) (*models.Machine, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Type != nil {
		fields["type"] = *req.Type
	}
	if req.ProductionLineID != nil {
		fields["productionLineId"] = *req.ProductionLineID
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if err := s.Repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

func (s *MachineService) DeleteMachine(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

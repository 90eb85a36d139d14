package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"floor-backend/internal/models"
	"floor-backend/internal/repositories"
)

type LineService struct {
	Repo *repositories.LineRepository
}

func NewLineService(repo *repositories.LineRepository) *LineService {
	return &LineService{Repo: repo}
}

func (s *LineService) CreateLine(ctx context.Context, req *models.CreateLineRequest) (*models.ProductionLine, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.Code)

	exists, err := s.Repo.CodeExists(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("line code %s %w", code, ErrConflict)
	}

	now := time.Now().UTC()
	line := &models.ProductionLine{
		Name:               strings.TrimSpace(req.Name),
		Code:               code,
		Location:           req.Location,
		Active:             true,
		TargetUnitsPerHour: req.TargetUnitsPerHour,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.Repo.Create(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *LineService) GetLine(ctx context.Context, id string) (*models.ProductionLine, error) {
	return s.Repo.Get(ctx, id)
}

func (s *LineService) ListLines(ctx context.Context) ([]models.ProductionLine, error) {
	return s.Repo.List(ctx)
}

func (s *LineService) UpdateLine(ctx context.Context, id string, req *models.UpdateLineRequest) (*models.ProductionLine, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	if req.TargetUnitsPerHour != nil {
		fields["targetUnitsPerHour"] = *req.TargetUnitsPerHour
	}
	if err := s.Repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

func (s *LineService) DeleteLine(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

package services

import (
	"context"
	"time"

	"floor-backend/internal/models"
	"floor-backend/internal/repositories"
)

type ScheduleService struct {
	Repo  *repositories.ScheduleRepository
	Lines *repositories.LineRepository
}

func NewScheduleService(repo *repositories.ScheduleRepository, lines *repositories.LineRepository) *ScheduleService {
	return &ScheduleService{Repo: repo, Lines: lines}
}

func (s *ScheduleService) CreateSchedule(ctx context.Context, req *models.CreateScheduleRequest) (*models.Schedule, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.Lines.Get(ctx, req.ProductionLineID); err != nil {
		return nil, lineLookupError(err)
	}

	sched := &models.Schedule{
		ProductionLineID: req.ProductionLineID,
		Style:            req.Style,
		PlannedUnits:     req.PlannedUnits,
		ShiftStart:       req.ShiftStart.UTC(),
		ShiftEnd:         req.ShiftEnd.UTC(),
		Status:           models.SchedulePlanned,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

func (s *ScheduleService) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ScheduleService) ListSchedules(ctx context.Context, lineID string) ([]models.Schedule, error) {
	return s.Repo.List(ctx, lineID)
}

func (s *ScheduleService) UpdateSchedule(ctx context.Context, id string, req *models.UpdateScheduleRequest) (*models.Schedule, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if req.Style != nil {
		fields["style"] = *req.Style
	}
	if req.PlannedUnits != nil {
		fields["plannedUnits"] = *req.PlannedUnits
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if err := s.Repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

func (s *ScheduleService) DeleteSchedule(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

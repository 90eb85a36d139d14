package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"floor-backend/internal/cache"
	"floor-backend/internal/models"
	"floor-backend/internal/repositories"
	"floor-backend/internal/store"

	"go.uber.org/zap"
)

type SessionService struct {
	Repo      *repositories.SessionRepository
	Lines     *repositories.LineRepository
	Schedules *repositories.ScheduleRepository
	Now       func() time.Time
	// Invalidate drops cached dashboards whose availability a session changes
	Invalidate func(ctx context.Context)
	log        *zap.Logger
}

func NewSessionService(repo *repositories.SessionRepository, lines *repositories.LineRepository, schedules *repositories.ScheduleRepository, log *zap.Logger) *SessionService {
	return &SessionService{
		Repo:       repo,
		Lines:      lines,
		Schedules:  schedules,
		Now:        func() time.Time { return time.Now().UTC() },
		Invalidate: cache.InvalidateDashboardCaches,
		log:        log.Named("sessions"),
	}
}

// Start opens a production session. A line runs one session at a time.
func (s *SessionService) Start(ctx context.Context, req *models.StartSessionRequest, supervisorID string) (*models.ProductionSession, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.Lines.Get(ctx, req.ProductionLineID); err != nil {
		return nil, lineLookupError(err)
	}

	active, err := s.Repo.List(ctx, req.ProductionLineID, models.SessionActive)
	if err != nil {
		return nil, err
	}
	if len(active) > 0 {
		return nil, fmt.Errorf("active session on line %s %w", req.ProductionLineID, ErrConflict)
	}

	if req.ScheduleID != "" {
		if err := s.Schedules.Update(ctx, req.ScheduleID, map[string]any{"status": models.ScheduleActive}); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, invalid("scheduleId", "does not exist")
			}
			return nil, err
		}
	}

	session := &models.ProductionSession{
		ProductionLineID: req.ProductionLineID,
		ScheduleID:       req.ScheduleID,
		SupervisorID:     supervisorID,
		StartedAt:        s.Now(),
		Status:           models.SessionActive,
	}
	if err := s.Repo.Create(ctx, session); err != nil {
		return nil, err
	}
	s.Invalidate(ctx)
	s.log.Info("session started", zap.String("id", session.ID), zap.String("line", session.ProductionLineID))
	return session, nil
}

// End closes an active session and completes its schedule
func (s *SessionService) End(ctx context.Context, id string) (*models.ProductionSession, error) {
	session, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionActive {
		return nil, transitionError(session.Status, models.SessionEnded)
	}

	now := s.Now()
	session.EndedAt = &now
	session.Status = models.SessionEnded
	if err := s.Repo.Update(ctx, id, map[string]any{"endedAt": now, "status": session.Status}); err != nil {
		return nil, err
	}

	if session.ScheduleID != "" {
		if err := s.Schedules.Update(ctx, session.ScheduleID, map[string]any{"status": models.ScheduleCompleted}); err != nil {
			s.log.Warn("failed to complete schedule", zap.String("schedule_id", session.ScheduleID), zap.Error(err))
		}
	}
	s.Invalidate(ctx)
	s.log.Info("session ended", zap.String("id", id))
	return session, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*models.ProductionSession, error) {
	return s.Repo.Get(ctx, id)
}

func (s *SessionService) List(ctx context.Context, lineID, status string) ([]models.ProductionSession, error) {
	return s.Repo.List(ctx, lineID, status)
}

func lineLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return invalid("productionLineId", "does not exist")
	}
	return err
}

package services

import (
	"context"
	"fmt"
	"time"

	"floor-backend/internal/cache"
	"floor-backend/internal/metrics"
	"floor-backend/internal/models"
	"floor-backend/internal/repositories"

	"go.uber.org/zap"
)

// PasscodeVerifier checks station passcodes for sign-offs
type PasscodeVerifier interface {
	VerifyPasscode(ctx context.Context, userID, passcode string, roles ...string) (*models.User, error)
}

// AlertPublisher receives floor alerts
type AlertPublisher interface {
	Publish(alert models.Alert)
}

// roles allowed to close a record
var closerRoles = []string{models.RoleSupervisor, models.RoleAdmin}

type DowntimeService struct {
	Repo      *repositories.DowntimeRepository
	Passcodes PasscodeVerifier
	Alerts    AlertPublisher
	Now       func() time.Time
	log       *zap.Logger
}

func NewDowntimeService(repo *repositories.DowntimeRepository, passcodes PasscodeVerifier, alerts AlertPublisher, log *zap.Logger) *DowntimeService {
	return &DowntimeService{
		Repo:      repo,
		Passcodes: passcodes,
		Alerts:    alerts,
		Now:       func() time.Time { return time.Now().UTC() },
		log:       log.Named("downtime"),
	}
}

// Log opens a new downtime record
func (s *DowntimeService) Log(ctx context.Context, req *models.LogDowntimeRequest, userID string) (*models.DowntimeRecord, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	now := s.Now()
	rec := &models.DowntimeRecord{
		Type:             req.Type,
		Reason:           req.Reason,
		ProductionLineID: req.ProductionLineID,
		SessionID:        req.SessionID,
		MachineID:        req.MachineID,
		Status:           models.StatusOpen,
		CreatedAt:        now,
		StartTime:        req.StartTime,
		LoggedBy:         userID,
		Notes:            req.Notes,
	}
	if req.Type == models.DowntimeStyleChangeover {
		rec.Changeover = &models.Changeover{FromStyle: req.FromStyle, ToStyle: req.ToStyle}
	}
	rec.Normalize()

	if err := s.Repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create downtime record: %w", err)
	}

	s.changed(ctx, rec, fmt.Sprintf("%s downtime logged: %s", rec.Type, rec.Reason))
	return rec, nil
}

func (s *DowntimeService) Get(ctx context.Context, id string) (*models.DowntimeRecord, error) {
	return s.Repo.Get(ctx, id)
}

func (s *DowntimeService) List(ctx context.Context, f models.DowntimeFilter) ([]models.DowntimeRecord, error) {
	return s.Repo.List(ctx, f)
}

// Delete removes a record outright (admin only)
func (s *DowntimeService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateDashboardCaches(ctx)
	return nil
}

// Acknowledge records a mechanic taking over a machine breakdown
func (s *DowntimeService) Acknowledge(ctx context.Context, id string, req *models.AcknowledgeRequest) (*models.DowntimeRecord, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	rec, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Type != models.DowntimeMachine || rec.Status != models.StatusOpen {
		return nil, transitionError(rec.Status, models.StatusMechanicReceived)
	}

	mechanic, err := s.Passcodes.VerifyPasscode(ctx, req.MechanicID, req.Passcode, models.RoleMechanic)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	rec.Status = models.StatusMechanicReceived
	rec.MechanicAcknowledgedAt = &now
	rec.MechanicID = mechanic.ID

	err = s.Repo.Update(ctx, id, map[string]any{
		"status":                 rec.Status,
		"mechanicAcknowledgedAt": now,
		"mechanicId":             mechanic.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("acknowledge downtime %s: %w", id, err)
	}

	s.changed(ctx, rec, fmt.Sprintf("%s is on the way for %s", mechanic.Name, rec.Reason))
	return rec, nil
}

// Resolve ends a machine or supply stoppage. Machine records must have
// been acknowledged first; changeovers resolve through QC approval.
func (s *DowntimeService) Resolve(ctx context.Context, id string, req *models.ResolveRequest) (*models.DowntimeRecord, error) {
	rec, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var expected string
	switch rec.Type {
	case models.DowntimeMachine:
		expected = models.StatusMechanicReceived
	case models.DowntimeSupply:
		expected = models.StatusOpen
	}
	if expected == "" || rec.Status != expected {
		return nil, transitionError(rec.Status, models.StatusResolved)
	}

	now := s.Now()
	end := now
	if req.EndTime != nil {
		end = *req.EndTime
	}
	rec.Status = models.StatusResolved
	rec.ResolvedAt = &now
	rec.EndTime = &end

	fields := map[string]any{
		"status":     rec.Status,
		"resolvedAt": now,
		"endTime":    end,
	}
	if req.Notes != "" {
		rec.Notes = req.Notes
		fields["notes"] = req.Notes
	}
	if err := s.Repo.Update(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("resolve downtime %s: %w", id, err)
	}

	s.changed(ctx, rec, fmt.Sprintf("%s downtime resolved: %s", rec.Type, rec.Reason))
	return rec, nil
}

// RecordStep completes the next changeover step. Steps must be completed
// in order and QC approval needs a QC passcode; it also resolves the
// record.
func (s *DowntimeService) RecordStep(ctx context.Context, id, step string, req *models.StepRequest) (*models.DowntimeRecord, error) {
	if !models.IsChangeoverStep(step) {
		return nil, invalid("step", "must be one of the changeover steps")
	}

	rec, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Type != models.DowntimeStyleChangeover || rec.Status != models.StatusOpen {
		return nil, transitionError(rec.Status, step)
	}
	if next := rec.Changeover.NextStep(); next != step {
		return nil, fmt.Errorf("%w: next step is %s", ErrInvalidTransition, next)
	}

	var approver *models.User
	if step == models.StepQCApproval {
		if approver, err = s.Passcodes.VerifyPasscode(ctx, req.UserID, req.Passcode, models.RoleQC); err != nil {
			return nil, err
		}
	}

	at := s.Now()
	if req.At != nil {
		at = *req.At
	}
	rec.Changeover.SetStep(step, at)

	fields := map[string]any{}
	if approver != nil {
		rec.Changeover.QCApprovedBy = approver.ID
		rec.Status = models.StatusResolved
		rec.ResolvedAt = &at
		rec.EndTime = &at
		fields["status"] = rec.Status
		fields["resolvedAt"] = at
		fields["endTime"] = at
	}
	fields["changeover"] = rec.ChangeoverFields()

	if err := s.Repo.Update(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("record changeover step %s: %w", id, err)
	}

	s.changed(ctx, rec, fmt.Sprintf("changeover %s to %s: %s done", rec.Changeover.FromStyle, rec.Changeover.ToStyle, step))
	return rec, nil
}

// Close is the supervisor sign-off on a resolved record
func (s *DowntimeService) Close(ctx context.Context, id string, req *models.CloseRequest) (*models.DowntimeRecord, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	rec, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.StatusResolved {
		return nil, transitionError(rec.Status, models.StatusClosed)
	}

	supervisor, err := s.Passcodes.VerifyPasscode(ctx, req.SupervisorID, req.Passcode, closerRoles...)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	rec.Status = models.StatusClosed
	rec.ClosedAt = &now
	rec.ClosedBy = supervisor.ID

	err = s.Repo.Update(ctx, id, map[string]any{
		"status":   rec.Status,
		"closedAt": now,
		"closedBy": supervisor.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("close downtime %s: %w", id, err)
	}

	s.changed(ctx, rec, fmt.Sprintf("%s downtime closed: %s", rec.Type, rec.Reason))
	return rec, nil
}

// changed runs the side effects shared by every state change
func (s *DowntimeService) changed(ctx context.Context, rec *models.DowntimeRecord, message string) {
	cache.InvalidateDashboardCaches(ctx)
	metrics.DowntimeEvents.WithLabelValues(rec.Type, rec.Status).Inc()

	s.log.Info("downtime state changed",
		zap.String("id", rec.ID),
		zap.String("type", rec.Type),
		zap.String("status", rec.Status),
		zap.String("line", rec.ProductionLineID))

	if s.Alerts != nil {
		s.Alerts.Publish(models.Alert{
			Kind:             "downtime",
			RecordID:         rec.ID,
			Category:         rec.Type,
			Status:           rec.Status,
			ProductionLineID: rec.ProductionLineID,
			Reason:           rec.Reason,
			Message:          message,
			At:               s.Now(),
		})
	}
}

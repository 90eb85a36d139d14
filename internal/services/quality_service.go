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

type QualityService struct {
	Repo   *repositories.QualityRepository
	Alerts AlertPublisher
	Now    func() time.Time
	log    *zap.Logger
}

func NewQualityService(repo *repositories.QualityRepository, alerts AlertPublisher, log *zap.Logger) *QualityService {
	return &QualityService{
		Repo:   repo,
		Alerts: alerts,
		Now:    func() time.Time { return time.Now().UTC() },
		log:    log.Named("quality"),
	}
}

// Log records rejected or reworked units
func (s *QualityService) Log(ctx context.Context, req *models.LogQualityRequest, userID string) (*models.QualityIssue, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	issue := &models.QualityIssue{
		Kind:             req.Kind,
		Reason:           req.Reason,
		Count:            req.Count,
		Cost:             req.Cost,
		RepairTime:       req.RepairTime,
		ProductionLineID: req.ProductionLineID,
		SessionID:        req.SessionID,
		LoggedBy:         userID,
		CreatedAt:        s.Now(),
	}
	issue.Normalize()

	if err := s.Repo.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("create quality issue: %w", err)
	}

	cache.InvalidateDashboardCaches(ctx)
	metrics.QualityUnits.WithLabelValues(issue.Kind).Add(float64(issue.Count))
	s.log.Info("quality issue logged",
		zap.String("id", issue.ID),
		zap.String("kind", issue.Kind),
		zap.Int("count", issue.Count),
		zap.String("line", issue.ProductionLineID))

	if s.Alerts != nil {
		s.Alerts.Publish(models.Alert{
			Kind:             "quality",
			RecordID:         issue.ID,
			Category:         issue.Kind,
			ProductionLineID: issue.ProductionLineID,
			Reason:           issue.Reason,
			Message:          fmt.Sprintf("%d units %sed: %s", issue.Count, issue.Kind, issue.Reason),
			At:               issue.CreatedAt,
		})
	}
	return issue, nil
}

func (s *QualityService) List(ctx context.Context, f models.QualityFilter) ([]models.QualityIssue, error) {
	return s.Repo.List(ctx, f)
}

func (s *QualityService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateDashboardCaches(ctx)
	return nil
}

package analytics

import (
	"testing"

	"floor-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issue(kind, reason string, count int, cost, repair float64) models.QualityIssue {
	return models.QualityIssue{Kind: kind, Reason: reason, Count: count, Cost: cost, RepairTime: repair}
}

func TestAggregateQuality(t *testing.T) {
	current := []models.QualityIssue{
		issue(models.QualityReject, "Stain", 4, 20, 0),
		issue(models.QualityReject, "Stain", 6, 30, 0),
		issue(models.QualityReject, "Hole", 3, 12.5, 0),
	}
	previous := []models.QualityIssue{
		issue(models.QualityReject, "Stain", 5, 25, 0),
	}

	s := AggregateQuality(current, previous)

	assert.Equal(t, 13, s.TotalCount)
	assert.Equal(t, 62.5, s.TotalCost)
	require.Len(t, s.Groups, 2)
	assert.Equal(t, QualityGroup{Reason: "Stain", Count: 10, Cost: 50, Entries: 2}, s.Groups[0])

	require.Len(t, s.TopReasons, 2)
	assert.Equal(t, "Stain", s.TopReasons[0].Reason)
	assert.InDelta(t, 100.0, s.TopReasons[0].Trend.Trend, 1e-9)
	assert.Equal(t, DirectionNone, s.TopReasons[1].Trend.Direction)

	assert.InDelta(t, 160.0, s.Trends.Count.Trend, 1e-9)
	assert.InDelta(t, 150.0, s.Trends.Cost.Trend, 1e-9)
	assert.Equal(t, DirectionNone, s.Trends.RepairTime.Direction)
}

func TestAggregateQualityRepairTime(t *testing.T) {
	s := AggregateQuality(
		[]models.QualityIssue{issue(models.QualityRework, "Seam", 2, 0, 15), issue(models.QualityRework, "Seam", 1, 0, 5)},
		[]models.QualityIssue{issue(models.QualityRework, "Seam", 1, 0, 40)},
	)
	assert.Equal(t, 20.0, s.TotalRepairTime)
	assert.InDelta(t, -50.0, s.Trends.RepairTime.Trend, 1e-9)
	assert.Equal(t, DirectionDown, s.Trends.RepairTime.Direction)
}

func TestAggregateQualityEmpty(t *testing.T) {
	s := AggregateQuality(nil, nil)
	assert.Zero(t, s.TotalCount)
	assert.NotNil(t, s.TopReasons)
	assert.Empty(t, s.TopReasons)
	assert.Empty(t, s.Groups)
}

func TestSplitQuality(t *testing.T) {
	rejects, reworks := SplitQuality([]models.QualityIssue{
		issue(models.QualityReject, "a", 1, 0, 0),
		issue(models.QualityRework, "b", 1, 0, 0),
		issue("other", "c", 1, 0, 0),
	})
	assert.Len(t, rejects, 1)
	assert.Len(t, reworks, 1)
}

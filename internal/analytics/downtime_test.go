package analytics

import (
	"fmt"
	"testing"
	"time"

	"floor-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)

func stop(typ, reason string, minutes float64) models.DowntimeRecord {
	start := base
	end := base.Add(time.Duration(minutes * float64(time.Minute)))
	return models.DowntimeRecord{Type: typ, Reason: reason, CreatedAt: base, StartTime: &start, EndTime: &end}
}

func findReason(t *testing.T, reasons []ReasonSummary, name string) ReasonSummary {
	t.Helper()
	for _, r := range reasons {
		if r.Reason == name {
			return r
		}
	}
	t.Fatalf("reason %q not found", name)
	return ReasonSummary{}
}

func TestAggregateMachineJamBelt(t *testing.T) {
	current := []models.DowntimeRecord{
		stop(models.DowntimeMachine, "Jam", 10),
		stop(models.DowntimeMachine, "Jam", 20),
		stop(models.DowntimeMachine, "Belt", 15),
	}
	previous := []models.DowntimeRecord{
		stop(models.DowntimeMachine, "Jam", 20),
		stop(models.DowntimeMachine, "Belt", 0),
	}

	s := AggregateMachine(current, previous)

	require.Len(t, s.Groups, 2)
	assert.Equal(t, "Jam", s.Groups[0].Reason)
	assert.Equal(t, 30.0, s.Groups[0].TotalTime)
	assert.Equal(t, 2, s.Groups[0].Count)
	assert.Equal(t, 15.0, s.Groups[0].AverageTime)

	jam := findReason(t, s.TopReasons, "Jam")
	assert.InDelta(t, 50.0, jam.Trend.Trend, 1e-9)
	assert.Equal(t, DirectionUp, jam.Trend.Direction)

	belt := findReason(t, s.TopReasons, "Belt")
	assert.Zero(t, belt.Trend.Trend)
	assert.Equal(t, DirectionNone, belt.Trend.Direction)

	assert.Equal(t, 45.0, s.TotalTime)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 15.0, s.AverageTime)
}

func TestAggregateEmptyCurrent(t *testing.T) {
	machine := AggregateMachine(nil, []models.DowntimeRecord{stop(models.DowntimeMachine, "Jam", 5)})
	assert.Zero(t, machine.TotalTime)
	assert.Zero(t, machine.AverageTime)
	assert.Zero(t, machine.Count)
	assert.NotNil(t, machine.TopReasons)
	assert.Empty(t, machine.TopReasons)
	assert.Zero(t, machine.Repair.Average)
	assert.Equal(t, DirectionDown, machine.Trends.TotalTime.Direction)

	supply := AggregateSupply(nil, nil)
	assert.Zero(t, supply.TotalTime)
	assert.Empty(t, supply.TopReasons)
	assert.Equal(t, DirectionNone, supply.Trends.Count.Direction)

	changeover := AggregateChangeover(nil, nil)
	assert.Zero(t, changeover.TotalTime)
	assert.Empty(t, changeover.TopReasons)
	require.Len(t, changeover.Steps, len(models.ChangeoverSteps))
	for _, step := range changeover.Steps {
		assert.Zero(t, step.AverageTime)
	}
}

func TestTopReasonsLimitedAndSorted(t *testing.T) {
	var records []models.DowntimeRecord
	for i := 1; i <= 8; i++ {
		records = append(records, stop(models.DowntimeSupply, fmt.Sprintf("R%d", i), float64(i*3)))
	}
	records = append(records, stop(models.DowntimeSupply, "A-tie", 24))

	s := AggregateSupply(records, nil)

	require.Len(t, s.TopReasons, TopReasonLimit)
	for i := 1; i < len(s.TopReasons); i++ {
		assert.GreaterOrEqual(t, s.TopReasons[i-1].TimeLost, s.TopReasons[i].TimeLost)
	}
	assert.Equal(t, "A-tie", s.TopReasons[0].Reason)
	assert.Equal(t, "R8", s.TopReasons[1].Reason)
	assert.Len(t, s.Groups, 9)
}

func TestGroupTotalsMatchRecordDurations(t *testing.T) {
	records := []models.DowntimeRecord{
		stop(models.DowntimeSupply, "Fabric", 12.5),
		stop(models.DowntimeSupply, "Thread", 7),
		stop(models.DowntimeSupply, "Fabric", -3),
		{Type: models.DowntimeSupply, Reason: "Open", CreatedAt: base, StartTime: ptr(base)},
	}

	s := AggregateSupply(records, nil)

	var groupSum, recordSum float64
	for _, g := range s.Groups {
		groupSum += g.TotalTime
	}
	for _, r := range records {
		recordSum += Duration(r.StartTime, r.EndTime)
	}
	assert.InDelta(t, recordSum, groupSum, 1e-9)
	assert.InDelta(t, s.TotalTime, groupSum, 1e-9)
	assert.Equal(t, 4, s.Count)
}

func TestMachineRepairAndResponse(t *testing.T) {
	rec := stop(models.DowntimeMachine, "Motor", 60)
	ack := base.Add(10 * time.Minute)
	resolved := base.Add(50 * time.Minute)
	rec.MechanicAcknowledgedAt = &ack
	rec.ResolvedAt = &resolved

	unacknowledged := stop(models.DowntimeMachine, "Motor", 20)

	prev := stop(models.DowntimeMachine, "Motor", 30)
	prevAck := base.Add(20 * time.Minute)
	prevResolved := base.Add(40 * time.Minute)
	prev.MechanicAcknowledgedAt = &prevAck
	prev.ResolvedAt = &prevResolved

	s := AggregateMachine([]models.DowntimeRecord{rec, unacknowledged}, []models.DowntimeRecord{prev})

	assert.Equal(t, 40.0, s.Repair.Total)
	assert.Equal(t, 40.0, s.Repair.Average)
	assert.Equal(t, 10.0, s.Response.Total)
	assert.InDelta(t, 100.0, s.Repair.TotalTrend.Trend, 1e-9)
	assert.InDelta(t, -50.0, s.Response.TotalTrend.Trend, 1e-9)

	require.Len(t, s.Groups, 1)
	assert.Equal(t, 40.0, s.Groups[0].RepairTime)
	assert.Equal(t, 10.0, s.Groups[0].AverageResponseTime)
}

func changeover(reason string, steps map[string]time.Duration) models.DowntimeRecord {
	c := &models.Changeover{FromStyle: "A", ToStyle: "B"}
	for step, offset := range steps {
		c.SetStep(step, base.Add(offset))
	}
	return models.DowntimeRecord{Type: models.DowntimeStyleChangeover, Reason: reason, CreatedAt: base, Changeover: c}
}

func TestChangeoverOnlySetupComplete(t *testing.T) {
	rec := changeover("Style", map[string]time.Duration{models.StepMachineSetup: 25 * time.Minute})

	durations := StepDurations(rec)
	assert.Equal(t, map[string]float64{models.StepMachineSetup: 25}, durations)

	s := AggregateChangeover([]models.DowntimeRecord{rec}, nil)
	assert.Equal(t, 25.0, s.TotalTime)
	assert.Equal(t, models.StepMachineSetup, s.Steps[0].Step)
	assert.Equal(t, 25.0, s.Steps[0].TotalTime)
	assert.Equal(t, 1, s.Steps[0].Count)
	for _, step := range s.Steps[1:] {
		assert.Zero(t, step.TotalTime)
		assert.Zero(t, step.Count)
	}
}

func TestChangeoverChainedSteps(t *testing.T) {
	full := changeover("Style", map[string]time.Duration{
		models.StepMachineSetup:     20 * time.Minute,
		models.StepPeopleAllocated:  30 * time.Minute,
		models.StepFirstUnitOffLine: 55 * time.Minute,
		models.StepQCApproval:       60 * time.Minute,
	})
	// people allocation skipped: first unit is measured from machine setup
	gap := changeover("Style", map[string]time.Duration{
		models.StepMachineSetup:     10 * time.Minute,
		models.StepFirstUnitOffLine: 40 * time.Minute,
	})

	assert.Equal(t, map[string]float64{
		models.StepMachineSetup:     20,
		models.StepPeopleAllocated:  10,
		models.StepFirstUnitOffLine: 25,
		models.StepQCApproval:       5,
	}, StepDurations(full))
	assert.Equal(t, map[string]float64{
		models.StepMachineSetup:     10,
		models.StepFirstUnitOffLine: 30,
	}, StepDurations(gap))

	prev := changeover("Style", map[string]time.Duration{models.StepMachineSetup: 15 * time.Minute})
	s := AggregateChangeover([]models.DowntimeRecord{full, gap}, []models.DowntimeRecord{prev})

	assert.Equal(t, 100.0, s.TotalTime)
	require.Len(t, s.TopReasons, 1)
	assert.Equal(t, 100.0, s.TopReasons[0].TimeLost)

	setup := s.Steps[0]
	assert.Equal(t, 30.0, setup.TotalTime)
	assert.Equal(t, 2, setup.Count)
	assert.Equal(t, 15.0, setup.AverageTime)
	assert.InDelta(t, 100.0, setup.Trend.Trend, 1e-9)
}

func TestChangeoverWithoutChangeoverData(t *testing.T) {
	rec := models.DowntimeRecord{Type: models.DowntimeStyleChangeover, Reason: "Style", CreatedAt: base}

	assert.Empty(t, StepDurations(rec))
	s := AggregateChangeover([]models.DowntimeRecord{rec}, nil)
	assert.Zero(t, s.TotalTime)
	assert.Equal(t, 1, s.Count)
}

func TestNormalizedReasonGroupsAsUnknown(t *testing.T) {
	rec := stop(models.DowntimeSupply, "", 5)
	rec.Normalize()

	s := AggregateSupply([]models.DowntimeRecord{rec}, nil)
	require.Len(t, s.TopReasons, 1)
	assert.Equal(t, models.UnknownReason, s.TopReasons[0].Reason)
}

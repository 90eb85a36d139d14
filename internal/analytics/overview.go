package analytics

import "floor-backend/internal/models"

// ChartPoint is the {name, value} shape bar and pie charts consume
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// WindowTotals are the inputs of the overview for one window
type WindowTotals struct {
	Machine        float64
	Supply         float64
	Changeover     float64
	SessionMinutes float64
}

func (t WindowTotals) Downtime() float64 {
	return t.Machine + t.Supply + t.Changeover
}

// Availability is the share of session time not lost to downtime, as a
// percentage. It is 0 when no session time was recorded.
func (t WindowTotals) Availability() float64 {
	if t.SessionMinutes <= 0 {
		return 0
	}
	return (t.SessionMinutes - t.Downtime()) / t.SessionMinutes * 100
}

type Overview struct {
	TotalDowntime      float64      `json:"totalDowntime"`
	TotalDowntimeHours string       `json:"totalDowntimeHours"`
	DowntimeTrend      TrendData    `json:"downtimeTrend"`
	SessionMinutes     float64      `json:"sessionMinutes"`
	Availability       float64      `json:"availability"`
	AvailabilityTrend  TrendData    `json:"availabilityTrend"`
	ByCategory         []ChartPoint `json:"byCategory"`
}

func BuildOverview(current, previous WindowTotals) Overview {
	return Overview{
		TotalDowntime:      current.Downtime(),
		TotalDowntimeHours: MinutesToHours(current.Downtime()),
		DowntimeTrend:      Trend(current.Downtime(), previous.Downtime()),
		SessionMinutes:     current.SessionMinutes,
		Availability:       current.Availability(),
		AvailabilityTrend:  Trend(current.Availability(), previous.Availability()),
		ByCategory: []ChartPoint{
			{Name: models.DowntimeMachine, Value: current.Machine},
			{Name: models.DowntimeSupply, Value: current.Supply},
			{Name: models.DowntimeStyleChangeover, Value: current.Changeover},
		},
	}
}

// ReasonChart renders top reasons as chart points
func ReasonChart(reasons []ReasonSummary) []ChartPoint {
	out := make([]ChartPoint, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, ChartPoint{Name: r.Reason, Value: r.TimeLost})
	}
	return out
}

// SplitDowntime separates records by category
func SplitDowntime(records []models.DowntimeRecord) (machine, supply, changeover []models.DowntimeRecord) {
	for _, r := range records {
		switch r.Type {
		case models.DowntimeMachine:
			machine = append(machine, r)
		case models.DowntimeSupply:
			supply = append(supply, r)
		case models.DowntimeStyleChangeover:
			changeover = append(changeover, r)
		}
	}
	return machine, supply, changeover
}

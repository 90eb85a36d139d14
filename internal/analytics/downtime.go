package analytics

import (
	"sort"

	"floor-backend/internal/models"
)

// TopReasonLimit caps how many reasons a summary reports
const TopReasonLimit = 5

type Group struct {
	Reason      string  `json:"reason"`
	TotalTime   float64 `json:"totalTime"`
	Count       int     `json:"count"`
	AverageTime float64 `json:"averageTime"`

	// machine downtime only
	RepairTime          float64 `json:"repairTime,omitempty"`
	AverageRepairTime   float64 `json:"averageRepairTime,omitempty"`
	ResponseTime        float64 `json:"responseTime,omitempty"`
	AverageResponseTime float64 `json:"averageResponseTime,omitempty"`

	repairCount   int
	responseCount int
}

type ReasonSummary struct {
	Reason   string    `json:"reason"`
	TimeLost float64   `json:"timeLost"`
	Count    int       `json:"count"`
	Trend    TrendData `json:"trend"`
}

type SummaryTrends struct {
	TotalTime   TrendData `json:"totalTime"`
	AverageTime TrendData `json:"averageTime"`
	Count       TrendData `json:"count"`
}

type CategorySummary struct {
	TotalTime   float64         `json:"totalTime"`
	TotalHours  string          `json:"totalHours"`
	AverageTime float64         `json:"averageTime"`
	Count       int             `json:"count"`
	Trends      SummaryTrends   `json:"trends"`
	Groups      []Group         `json:"groups"`
	TopReasons  []ReasonSummary `json:"topReasons"`
}

type TimingSummary struct {
	Total        float64   `json:"total"`
	Average      float64   `json:"average"`
	TotalTrend   TrendData `json:"totalTrend"`
	AverageTrend TrendData `json:"averageTrend"`
}

type MachineSummary struct {
	CategorySummary
	Repair   TimingSummary `json:"repair"`
	Response TimingSummary `json:"response"`
}

type StepSummary struct {
	Step        string    `json:"step"`
	TotalTime   float64   `json:"totalTime"`
	Count       int       `json:"count"`
	AverageTime float64   `json:"averageTime"`
	Trend       TrendData `json:"trend"`
}

type ChangeoverSummary struct {
	CategorySummary
	Steps []StepSummary `json:"steps"`
}

// grouping accumulates per-reason totals for one window
type grouping struct {
	byReason map[string]*Group
	total    float64
	count    int

	repairTotal, responseTotal float64
	repairCount, responseCount int
}

func newGrouping() *grouping {
	return &grouping{byReason: make(map[string]*Group)}
}

func (g *grouping) add(reason string, minutes float64) *Group {
	grp, ok := g.byReason[reason]
	if !ok {
		grp = &Group{Reason: reason}
		g.byReason[reason] = grp
	}
	grp.TotalTime += minutes
	grp.Count++
	g.total += minutes
	g.count++
	return grp
}

func (g *grouping) groupTime(reason string) float64 {
	if grp, ok := g.byReason[reason]; ok {
		return grp.TotalTime
	}
	return 0
}

// sorted returns groups by total time descending, then reason ascending
func (g *grouping) sorted() []Group {
	out := make([]Group, 0, len(g.byReason))
	for _, grp := range g.byReason {
		grp.AverageTime = average(grp.TotalTime, grp.Count)
		grp.AverageRepairTime = average(grp.RepairTime, grp.repairCount)
		grp.AverageResponseTime = average(grp.ResponseTime, grp.responseCount)
		out = append(out, *grp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalTime != out[j].TotalTime {
			return out[i].TotalTime > out[j].TotalTime
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}

func summarize(cur, prev *grouping) CategorySummary {
	groups := cur.sorted()

	top := make([]ReasonSummary, 0, TopReasonLimit)
	for _, grp := range groups {
		if len(top) == TopReasonLimit {
			break
		}
		top = append(top, ReasonSummary{
			Reason:   grp.Reason,
			TimeLost: grp.TotalTime,
			Count:    grp.Count,
			Trend:    Trend(grp.TotalTime, prev.groupTime(grp.Reason)),
		})
	}

	avg := average(cur.total, cur.count)
	return CategorySummary{
		TotalTime:   cur.total,
		TotalHours:  MinutesToHours(cur.total),
		AverageTime: avg,
		Count:       cur.count,
		Trends: SummaryTrends{
			TotalTime:   Trend(cur.total, prev.total),
			AverageTime: Trend(avg, average(prev.total, prev.count)),
			Count:       Trend(float64(cur.count), float64(prev.count)),
		},
		Groups:     groups,
		TopReasons: top,
	}
}

func timing(curTotal float64, curCount int, prevTotal float64, prevCount int) TimingSummary {
	avg := average(curTotal, curCount)
	return TimingSummary{
		Total:        curTotal,
		Average:      avg,
		TotalTrend:   Trend(curTotal, prevTotal),
		AverageTrend: Trend(avg, average(prevTotal, prevCount)),
	}
}

// groupMachine groups machine breakdowns by reason. Repair runs from the
// mechanic acknowledgement to resolution; response runs from the start
// of the breakdown to the acknowledgement. Averages count only records
// that have both markers.
func groupMachine(records []models.DowntimeRecord) *grouping {
	g := newGrouping()
	for _, r := range records {
		grp := g.add(r.Reason, Duration(r.StartTime, r.EndTime))
		if r.MechanicAcknowledgedAt != nil && r.ResolvedAt != nil {
			repair := Duration(r.MechanicAcknowledgedAt, r.ResolvedAt)
			grp.RepairTime += repair
			grp.repairCount++
			g.repairTotal += repair
			g.repairCount++
		}
		if r.StartTime != nil && r.MechanicAcknowledgedAt != nil {
			response := Duration(r.StartTime, r.MechanicAcknowledgedAt)
			grp.ResponseTime += response
			grp.responseCount++
			g.responseTotal += response
			g.responseCount++
		}
	}
	return g
}

// AggregateMachine summarizes machine downtime for a window against the
// previous window.
func AggregateMachine(current, previous []models.DowntimeRecord) MachineSummary {
	cur, prev := groupMachine(current), groupMachine(previous)
	return MachineSummary{
		CategorySummary: summarize(cur, prev),
		Repair:          timing(cur.repairTotal, cur.repairCount, prev.repairTotal, prev.repairCount),
		Response:        timing(cur.responseTotal, cur.responseCount, prev.responseTotal, prev.responseCount),
	}
}

func groupFlat(records []models.DowntimeRecord) *grouping {
	g := newGrouping()
	for _, r := range records {
		g.add(r.Reason, Duration(r.StartTime, r.EndTime))
	}
	return g
}

// AggregateSupply summarizes supply downtime using plain start/end times
func AggregateSupply(current, previous []models.DowntimeRecord) CategorySummary {
	return summarize(groupFlat(current), groupFlat(previous))
}

// StepDurations returns the minutes spent on each changeover step. Each
// completed step is measured from the previous completed step, the first
// from the record's creation. Missing steps are 0.
func StepDurations(r models.DowntimeRecord) map[string]float64 {
	out := make(map[string]float64, len(models.ChangeoverSteps))
	anchor := r.CreatedAt
	for _, step := range models.ChangeoverSteps {
		at := r.Changeover.StepTime(step)
		if at == nil {
			continue
		}
		out[step] = Duration(&anchor, at)
		anchor = *at
	}
	return out
}

type stepTotals struct {
	total map[string]float64
	count map[string]int
}

func groupChangeover(records []models.DowntimeRecord) (*grouping, stepTotals) {
	g := newGrouping()
	steps := stepTotals{total: make(map[string]float64), count: make(map[string]int)}
	for _, r := range records {
		durations := StepDurations(r)
		var recordTime float64
		for _, step := range models.ChangeoverSteps {
			minutes, ok := durations[step]
			if !ok {
				continue
			}
			recordTime += minutes
			steps.total[step] += minutes
			steps.count[step]++
		}
		g.add(r.Reason, recordTime)
	}
	return g, steps
}

// AggregateChangeover summarizes style changeovers. A record's time is
// the sum of its completed steps.
func AggregateChangeover(current, previous []models.DowntimeRecord) ChangeoverSummary {
	cur, curSteps := groupChangeover(current)
	prev, prevSteps := groupChangeover(previous)

	steps := make([]StepSummary, 0, len(models.ChangeoverSteps))
	for _, step := range models.ChangeoverSteps {
		total := curSteps.total[step]
		steps = append(steps, StepSummary{
			Step:        step,
			TotalTime:   total,
			Count:       curSteps.count[step],
			AverageTime: average(total, curSteps.count[step]),
			Trend:       Trend(total, prevSteps.total[step]),
		})
	}

	return ChangeoverSummary{
		CategorySummary: summarize(cur, prev),
		Steps:           steps,
	}
}

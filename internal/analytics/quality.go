package analytics

import (
	"sort"

	"floor-backend/internal/models"
)

type QualityGroup struct {
	Reason     string  `json:"reason"`
	Count      int     `json:"count"`
	Cost       float64 `json:"cost"`
	RepairTime float64 `json:"repairTime"`
	Entries    int     `json:"entries"`
}

type QualityReason struct {
	Reason string    `json:"reason"`
	Count  int       `json:"count"`
	Cost   float64   `json:"cost"`
	Trend  TrendData `json:"trend"`
}

type QualityTrends struct {
	Count      TrendData `json:"count"`
	Cost       TrendData `json:"cost"`
	RepairTime TrendData `json:"repairTime"`
}

type QualitySummary struct {
	TotalCount      int             `json:"totalCount"`
	TotalCost       float64         `json:"totalCost"`
	TotalRepairTime float64         `json:"totalRepairTime"`
	Trends          QualityTrends   `json:"trends"`
	Groups          []QualityGroup  `json:"groups"`
	TopReasons      []QualityReason `json:"topReasons"`
}

type qualityGrouping struct {
	byReason   map[string]*QualityGroup
	count      int
	cost       float64
	repairTime float64
}

func groupQuality(issues []models.QualityIssue) *qualityGrouping {
	g := &qualityGrouping{byReason: make(map[string]*QualityGroup)}
	for _, q := range issues {
		grp, ok := g.byReason[q.Reason]
		if !ok {
			grp = &QualityGroup{Reason: q.Reason}
			g.byReason[q.Reason] = grp
		}
		grp.Count += q.Count
		grp.Cost += q.Cost
		grp.RepairTime += q.RepairTime
		grp.Entries++
		g.count += q.Count
		g.cost += q.Cost
		g.repairTime += q.RepairTime
	}
	return g
}

// AggregateQuality summarizes one kind of quality issue (rejects or
// reworks). Reasons rank by unit count.
func AggregateQuality(current, previous []models.QualityIssue) QualitySummary {
	cur, prev := groupQuality(current), groupQuality(previous)

	groups := make([]QualityGroup, 0, len(cur.byReason))
	for _, grp := range cur.byReason {
		groups = append(groups, *grp)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Reason < groups[j].Reason
	})

	top := make([]QualityReason, 0, TopReasonLimit)
	for _, grp := range groups {
		if len(top) == TopReasonLimit {
			break
		}
		var prevCount float64
		if p, ok := prev.byReason[grp.Reason]; ok {
			prevCount = float64(p.Count)
		}
		top = append(top, QualityReason{
			Reason: grp.Reason,
			Count:  grp.Count,
			Cost:   grp.Cost,
			Trend:  Trend(float64(grp.Count), prevCount),
		})
	}

	return QualitySummary{
		TotalCount:      cur.count,
		TotalCost:       cur.cost,
		TotalRepairTime: cur.repairTime,
		Trends: QualityTrends{
			Count:      Trend(float64(cur.count), float64(prev.count)),
			Cost:       Trend(cur.cost, prev.cost),
			RepairTime: Trend(cur.repairTime, prev.repairTime),
		},
		Groups:     groups,
		TopReasons: top,
	}
}

// SplitQuality separates rejects from reworks
func SplitQuality(issues []models.QualityIssue) (rejects, reworks []models.QualityIssue) {
	for _, q := range issues {
		switch q.Kind {
		case models.QualityReject:
			rejects = append(rejects, q)
		case models.QualityRework:
			reworks = append(reworks, q)
		}
	}
	return rejects, reworks
}

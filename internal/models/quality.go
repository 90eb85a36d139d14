package models

import (
	"strings"
	"time"
)

const (
	QualityReject = "reject"
	QualityRework = "rework"
)

type QualityIssue struct {
	ID               string    `json:"id"`
	Kind             string    `json:"kind"`
	Reason           string    `json:"reason"`
	Count            int       `json:"count"`
	Cost             float64   `json:"cost"`
	RepairTime       float64   `json:"repairTime"` // minutes
	ProductionLineID string    `json:"productionLineId"`
	SessionID        string    `json:"sessionId,omitempty"`
	LoggedBy         string    `json:"loggedBy,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (q *QualityIssue) Normalize() {
	if strings.TrimSpace(q.Reason) == "" {
		q.Reason = UnknownReason
	}
}

func (q QualityIssue) Fields() map[string]any {
	return map[string]any{
		"kind":             q.Kind,
		"reason":           q.Reason,
		"count":            q.Count,
		"cost":             q.Cost,
		"repairTime":       q.RepairTime,
		"productionLineId": q.ProductionLineID,
		"sessionId":        q.SessionID,
		"loggedBy":         q.LoggedBy,
		"createdAt":        q.CreatedAt,
	}
}

type LogQualityRequest struct {
	Kind             string  `json:"kind" validate:"required,oneof=reject rework"`
	Reason           string  `json:"reason"`
	Count            int     `json:"count" validate:"required,min=1"`
	Cost             float64 `json:"cost" validate:"gte=0"`
	RepairTime       float64 `json:"repairTime" validate:"gte=0"`
	ProductionLineID string  `json:"productionLineId" validate:"required"`
	SessionID        string  `json:"sessionId"`
}

type QualityFilter struct {
	ProductionLineID string
	SessionID        string
	Kind             string
	From             time.Time
	To               time.Time
}

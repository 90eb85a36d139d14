package models

import "time"

const (
	SessionActive = "active"
	SessionEnded  = "ended"
)

// ProductionSession is a supervisor's run of a production line. Downtime
// and quality records point back to it through sessionId.
type ProductionSession struct {
	ID               string     `json:"id"`
	ProductionLineID string     `json:"productionLineId"`
	ScheduleID       string     `json:"scheduleId,omitempty"`
	SupervisorID     string     `json:"supervisorId"`
	StartedAt        time.Time  `json:"startedAt"`
	EndedAt          *time.Time `json:"endedAt,omitempty"`
	Status           string     `json:"status"`
}

func (s ProductionSession) Fields() map[string]any {
	return map[string]any{
		"productionLineId": s.ProductionLineID,
		"scheduleId":       s.ScheduleID,
		"supervisorId":     s.SupervisorID,
		"startedAt":        s.StartedAt,
		"endedAt":          s.EndedAt,
		"status":           s.Status,
	}
}

// MinutesWithin returns how many minutes of the session fall inside
// [from, to). Sessions still running count up to now.
func (s ProductionSession) MinutesWithin(from, to, now time.Time) float64 {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	start := s.StartedAt
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Minutes()
}

type StartSessionRequest struct {
	ProductionLineID string `json:"productionLineId" validate:"required"`
	ScheduleID       string `json:"scheduleId"`
}

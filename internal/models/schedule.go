package models

import "time"

const (
	SchedulePlanned   = "planned"
	ScheduleActive    = "active"
	ScheduleCompleted = "completed"
)

type Schedule struct {
	ID               string    `json:"id"`
	ProductionLineID string    `json:"productionLineId"`
	Style            string    `json:"style"`
	PlannedUnits     int       `json:"plannedUnits"`
	ShiftStart       time.Time `json:"shiftStart"`
	ShiftEnd         time.Time `json:"shiftEnd"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (s Schedule) Fields() map[string]any {
	return map[string]any{
		"productionLineId": s.ProductionLineID,
		"style":            s.Style,
		"plannedUnits":     s.PlannedUnits,
		"shiftStart":       s.ShiftStart,
		"shiftEnd":         s.ShiftEnd,
		"status":           s.Status,
		"createdAt":        s.CreatedAt,
	}
}

type CreateScheduleRequest struct {
	ProductionLineID string    `json:"productionLineId" validate:"required"`
	Style            string    `json:"style" validate:"required"`
	PlannedUnits     int       `json:"plannedUnits" validate:"gte=0"`
	ShiftStart       time.Time `json:"shiftStart" validate:"required"`
	ShiftEnd         time.Time `json:"shiftEnd" validate:"required,gtfield=ShiftStart"`
}

type UpdateScheduleRequest struct {
	Style        *string `json:"style,omitempty" validate:"omitempty,min=1"`
	PlannedUnits *int    `json:"plannedUnits,omitempty" validate:"omitempty,gte=0"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=planned active completed"`
}

package models

import "time"

type ProductionLine struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Code               string    `json:"code"`
	Location           string    `json:"location"`
	Active             bool      `json:"active"`
	TargetUnitsPerHour int       `json:"targetUnitsPerHour"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (l ProductionLine) Fields() map[string]any {
	return map[string]any{
		"name":               l.Name,
		"code":               l.Code,
		"location":           l.Location,
		"active":             l.Active,
		"targetUnitsPerHour": l.TargetUnitsPerHour,
		"createdAt":          l.CreatedAt,
		"updatedAt":          l.UpdatedAt,
	}
}

type CreateLineRequest struct {
	Name               string `json:"name" validate:"required"`
	Code               string `json:"code" validate:"required"`
	Location           string `json:"location"`
	TargetUnitsPerHour int    `json:"targetUnitsPerHour" validate:"gte=0"`
}

type UpdateLineRequest struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Location           *string `json:"location,omitempty"`
	Active             *bool   `json:"active,omitempty"`
	TargetUnitsPerHour *int    `json:"targetUnitsPerHour,omitempty" validate:"omitempty,gte=0"`
}

package models

import "time"

const (
	MachineActive      = "active"
	MachineMaintenance = "maintenance"
	MachineRetired     = "retired"
)

type Machine struct {
	ID               string    `json:"id"`
	AssetNumber      string    `json:"assetNumber"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	ProductionLineID string    `json:"productionLineId,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (m Machine) Fields() map[string]any {
	return map[string]any{
		"assetNumber":      m.AssetNumber,
		"name":             m.Name,
		"type":             m.Type,
		"productionLineId": m.ProductionLineID,
		"status":           m.Status,
		"createdAt":        m.CreatedAt,
	}
}

type CreateMachineRequest struct {
	AssetNumber      string `json:"assetNumber" validate:"required"`
	Name             string `json:"name" validate:"required"`
	Type             string `json:"type"`
	ProductionLineID string `json:"productionLineId"`
	Status           string `json:"status" validate:"omitempty,oneof=active maintenance retired"`
}

type UpdateMachineRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Type             *string `json:"type,omitempty"`
	ProductionLineID *string `json:"productionLineId,omitempty"`
	Status           *string `json:"status,omitempty" validate:"omitempty,oneof=active maintenance retired"`
}

package models

import "time"

// Alert is pushed to floor displays whenever a downtime or quality event
// changes state.
type Alert struct {
	Kind             string    `json:"kind"` // downtime or quality
	RecordID         string    `json:"recordId"`
	Category         string    `json:"category"`
	Status           string    `json:"status,omitempty"`
	ProductionLineID string    `json:"productionLineId"`
	Reason           string    `json:"reason"`
	Message          string    `json:"message"`
	At               time.Time `json:"at"`
}

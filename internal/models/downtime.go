package models

import (
	"strings"
	"time"
)

// Downtime categories
const (
	DowntimeMachine         = "machine"
	DowntimeSupply          = "supply"
	DowntimeStyleChangeover = "styleChangeover"
)

// Downtime statuses
const (
	StatusOpen             = "Open"
	StatusMechanicReceived = "Mechanic Received"
	StatusResolved         = "Resolved"
	StatusClosed           = "Closed"
)

// UnknownReason is used for records logged without a reason
const UnknownReason = "Unknown"

// Changeover steps in the order they must be completed
const (
	StepMachineSetup     = "machineSetupComplete"
	StepPeopleAllocated  = "peopleAllocated"
	StepFirstUnitOffLine = "firstUnitOffLine"
	StepQCApproval       = "qcApproval"
)

var ChangeoverSteps = []string{StepMachineSetup, StepPeopleAllocated, StepFirstUnitOffLine, StepQCApproval}

type Changeover struct {
	FromStyle            string     `json:"fromStyle"`
	ToStyle              string     `json:"toStyle"`
	MachineSetupComplete *time.Time `json:"machineSetupComplete,omitempty"`
	PeopleAllocated      *time.Time `json:"peopleAllocated,omitempty"`
	FirstUnitOffLine     *time.Time `json:"firstUnitOffLine,omitempty"`
	QCApproval           *time.Time `json:"qcApproval,omitempty"`
	QCApprovedBy         string     `json:"qcApprovedBy,omitempty"`
}

// StepTime returns the completion time of a step, nil when not reached
func (c *Changeover) StepTime(step string) *time.Time {
	if c == nil {
		return nil
	}
	switch step {
	case StepMachineSetup:
		return c.MachineSetupComplete
	case StepPeopleAllocated:
		return c.PeopleAllocated
	case StepFirstUnitOffLine:
		return c.FirstUnitOffLine
	case StepQCApproval:
		return c.QCApproval
	}
	return nil
}

// SetStep records the completion time of a step
func (c *Changeover) SetStep(step string, at time.Time) {
	switch step {
	case StepMachineSetup:
		c.MachineSetupComplete = &at
	case StepPeopleAllocated:
		c.PeopleAllocated = &at
	case StepFirstUnitOffLine:
		c.FirstUnitOffLine = &at
	case StepQCApproval:
		c.QCApproval = &at
	}
}

// NextStep returns the first step not yet completed, or "" when all are done
func (c *Changeover) NextStep() string {
	for _, step := range ChangeoverSteps {
		if c.StepTime(step) == nil {
			return step
		}
	}
	return ""
}

func (c *Changeover) fields() map[string]any {
	return map[string]any{
		"fromStyle":            c.FromStyle,
		"toStyle":              c.ToStyle,
		"machineSetupComplete": c.MachineSetupComplete,
		"peopleAllocated":      c.PeopleAllocated,
		"firstUnitOffLine":     c.FirstUnitOffLine,
		"qcApproval":           c.QCApproval,
		"qcApprovedBy":         c.QCApprovedBy,
	}
}

func IsChangeoverStep(step string) bool {
	for _, s := range ChangeoverSteps {
		if s == step {
			return true
		}
	}
	return false
}

type DowntimeRecord struct {
	ID                     string      `json:"id"`
	Type                   string      `json:"type"`
	Reason                 string      `json:"reason"`
	ProductionLineID       string      `json:"productionLineId"`
	SessionID              string      `json:"sessionId,omitempty"`
	MachineID              string      `json:"machineId,omitempty"`
	Status                 string      `json:"status"`
	CreatedAt              time.Time   `json:"createdAt"`
	StartTime              *time.Time  `json:"startTime,omitempty"`
	EndTime                *time.Time  `json:"endTime,omitempty"`
	ResolvedAt             *time.Time  `json:"resolvedAt,omitempty"`
	MechanicAcknowledgedAt *time.Time  `json:"mechanicAcknowledgedAt,omitempty"`
	MechanicID             string      `json:"mechanicId,omitempty"`
	ClosedAt               *time.Time  `json:"closedAt,omitempty"`
	ClosedBy               string      `json:"closedBy,omitempty"`
	LoggedBy               string      `json:"loggedBy,omitempty"`
	Notes                  string      `json:"notes,omitempty"`
	Changeover             *Changeover `json:"changeover,omitempty"`
}

// Normalize fills the defaults the aggregators rely on: an empty reason
// becomes "Unknown", a missing start falls back to createdAt and, for
// machine and supply records, a missing end falls back to resolvedAt.
func (d *DowntimeRecord) Normalize() {
	if strings.TrimSpace(d.Reason) == "" {
		d.Reason = UnknownReason
	}
	if d.StartTime == nil && !d.CreatedAt.IsZero() {
		created := d.CreatedAt
		d.StartTime = &created
	}
	if d.EndTime == nil && d.ResolvedAt != nil && d.Type != DowntimeStyleChangeover {
		resolved := *d.ResolvedAt
		d.EndTime = &resolved
	}
	if d.Type == DowntimeStyleChangeover && d.Changeover == nil {
		d.Changeover = &Changeover{}
	}
}

func (d DowntimeRecord) Fields() map[string]any {
	fields := map[string]any{
		"type":                   d.Type,
		"reason":                 d.Reason,
		"productionLineId":       d.ProductionLineID,
		"sessionId":              d.SessionID,
		"machineId":              d.MachineID,
		"status":                 d.Status,
		"createdAt":              d.CreatedAt,
		"startTime":              d.StartTime,
		"endTime":                d.EndTime,
		"resolvedAt":             d.ResolvedAt,
		"mechanicAcknowledgedAt": d.MechanicAcknowledgedAt,
		"mechanicId":             d.MechanicID,
		"closedAt":               d.ClosedAt,
		"closedBy":               d.ClosedBy,
		"loggedBy":               d.LoggedBy,
		"notes":                  d.Notes,
	}
	if d.Changeover != nil {
		fields["changeover"] = d.Changeover.fields()
	}
	return fields
}

// ChangeoverFields renders only the changeover for a partial update
func (d DowntimeRecord) ChangeoverFields() map[string]any {
	if d.Changeover == nil {
		return nil
	}
	return d.Changeover.fields()
}

type LogDowntimeRequest struct {
	Type             string     `json:"type" validate:"required,oneof=machine supply styleChangeover"`
	Reason           string     `json:"reason"`
	ProductionLineID string     `json:"productionLineId" validate:"required"`
	SessionID        string     `json:"sessionId"`
	MachineID        string     `json:"machineId"`
	StartTime        *time.Time `json:"startTime"`
	Notes            string     `json:"notes"`
	FromStyle        string     `json:"fromStyle" validate:"required_if=Type styleChangeover"`
	ToStyle          string     `json:"toStyle" validate:"required_if=Type styleChangeover"`
}

// AcknowledgeRequest is the mechanic sign-in on a machine breakdown
type AcknowledgeRequest struct {
	MechanicID string `json:"mechanicId" validate:"required"`
	Passcode   string `json:"passcode" validate:"required"`
}

type ResolveRequest struct {
	EndTime *time.Time `json:"endTime"`
	Notes   string     `json:"notes"`
}

// StepRequest completes one changeover step. Only QC approval needs a
// user and passcode.
type StepRequest struct {
	UserID   string     `json:"userId"`
	Passcode string     `json:"passcode"`
	At       *time.Time `json:"at"`
}

type CloseRequest struct {
	SupervisorID string `json:"supervisorId" validate:"required"`
	Passcode     string `json:"passcode" validate:"required"`
}

// DowntimeFilter narrows a downtime listing. Zero values match everything.
type DowntimeFilter struct {
	ProductionLineID string
	SessionID        string
	Type             string
	Status           string
	From             time.Time
	To               time.Time
}

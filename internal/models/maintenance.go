package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TriggerType is the dimension a maintenance interval is measured in.
type TriggerType string

const (
	TriggerHours  TriggerType = "hours"
	TriggerDays   TriggerType = "days"
	TriggerTrips  TriggerType = "trips"
	TriggerSensor TriggerType = "sensor"
)

// IsValidTriggerType checks if a trigger type is one of the known dimensions
func IsValidTriggerType(t TriggerType) bool {
	switch t {
	case TriggerHours, TriggerDays, TriggerTrips, TriggerSensor:
		return true
	default:
		return false
	}
}

// Unit returns the human readable unit used in status messages.
func (t TriggerType) Unit() string {
	return string(t)
}

// MaintenanceRule defines when a part of a vessel system needs service.
type MaintenanceRule struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Owner         string             `json:"-" bson:"user_id"`
	SystemID      string             `json:"system_id" bson:"system_id"` // "engine", "nets", "safety", ...
	PartName      string             `json:"part_name" bson:"part_name"`
	TriggerType   TriggerType        `json:"trigger_type" bson:"trigger_type"`
	IntervalValue float64            `json:"interval_value" bson:"interval_value"`
	WarningBefore float64            `json:"warning_before" bson:"warning_before"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// MaintenanceLog records a completed service. Counters are a snapshot of the
// vessel state taken when the log was written.
type MaintenanceLog struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Owner                string             `json:"-" bson:"user_id"`
	VesselID             string             `json:"vessel_id" bson:"vessel_id"`
	SystemID             string             `json:"system_id" bson:"system_id"`
	PartName             string             `json:"part_name" bson:"part_name"`
	DoneAt               string             `json:"done_at" bson:"done_at"` // YYYY-MM-DD
	Technician           string             `json:"technician" bson:"technician"`
	Notes                string             `json:"notes" bson:"notes"`
	Cost                 *float64           `json:"cost,omitempty" bson:"cost,omitempty"`
	EngineHoursAtService float64            `json:"engine_hours_at_service" bson:"engine_hours_at_service"`
	TripsAtService       int                `json:"trips_at_service" bson:"trips_at_service"`
	CreatedAt            time.Time          `json:"created_at" bson:"created_at"`
}

// CreateRuleRequest is the body accepted when creating a rule.
type CreateRuleRequest struct {
	SystemID      string      `json:"system_id"`
	PartName      string      `json:"part_name"`
	TriggerType   TriggerType `json:"trigger_type"`
	IntervalValue float64     `json:"interval_value"`
	WarningBefore float64     `json:"warning_before"`
	Description   string      `json:"description"`
}

// UpdateRuleRequest carries the editable rule fields; nil means unchanged.
type UpdateRuleRequest struct {
	IntervalValue *float64 `json:"interval_value"`
	WarningBefore *float64 `json:"warning_before"`
	Description   *string  `json:"description"`
}

// IsEmpty reports whether the request changes nothing.
func (r UpdateRuleRequest) IsEmpty() bool {
	return r.IntervalValue == nil && r.WarningBefore == nil && r.Description == nil
}

// LogMaintenanceRequest is the body accepted when recording a service.
type LogMaintenanceRequest struct {
	SystemID   string   `json:"system_id"`
	PartName   string   `json:"part_name"`
	DoneAt     string   `json:"done_at"`
	Technician string   `json:"technician"`
	Notes      string   `json:"notes"`
	Cost       *float64 `json:"cost,omitempty"`
}

// LogFilter narrows a log listing.
type LogFilter struct {
	SystemID string
	PartName string
	Limit    int64
}

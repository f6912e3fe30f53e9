package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vessel represents a fishing vessel owned by a user.
type Vessel struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Owner      string             `json:"-" bson:"user_id"`
	Name       string             `json:"name" bson:"name"`
	Type       string             `json:"type" bson:"type"`                           // "Multi-Day Vessel", "One-Day Boat", ...
	FuelSpecID string             `json:"fuel_spec_id,omitempty" bson:"fuel_spec_id"` // row in the fuel spec table
	// Systems holds crew-reported status and manual tasks, keyed by system id.
	Systems   map[string]SystemRecord `json:"systems,omitempty" bson:"systems,omitempty"`
	CreatedAt time.Time               `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time               `json:"updated_at" bson:"updated_at"`
}

// VesselState holds the counters maintenance rules are evaluated against.
type VesselState struct {
	VesselID     string         `json:"vessel_id" bson:"vessel_id"`
	Owner        string         `json:"-" bson:"user_id"`
	EngineHours  float64        `json:"engine_hours" bson:"engine_hours"`
	TotalTrips   int            `json:"total_trips" bson:"total_trips"`
	LastTripDate string         `json:"last_trip_date,omitempty" bson:"last_trip_date,omitempty"` // YYYY-MM-DD
	SensorData   map[string]any `json:"sensor_data,omitempty" bson:"sensor_data,omitempty"`
	UpdatedAt    time.Time      `json:"updated_at" bson:"updated_at"`
	// Revision is bumped on every write and used for compare-and-swap updates.
	Revision int64 `json:"-" bson:"revision"`
}

// NewVesselState returns a zeroed state for a vessel.
func NewVesselState(owner, vesselID string, now time.Time) VesselState {
	return VesselState{
		VesselID:  vesselID,
		Owner:     owner,
		UpdatedAt: now,
	}
}

// CreateVesselRequest is the body accepted when registering or replacing a
// vessel.
type CreateVesselRequest struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	FuelSpecID string `json:"fuel_spec_id"`
}

// CompleteTripRequest reports a finished trip.
type CompleteTripRequest struct {
	TripDurationHours float64 `json:"trip_duration_hours"`
	TripDate          string  `json:"trip_date"`
}

// StatePatch overwrites the provided counters; nil fields are left alone.
type StatePatch struct {
	EngineHours  *float64       `json:"engine_hours"`
	TotalTrips   *int           `json:"total_trips"`
	LastTripDate *string        `json:"last_trip_date"`
	SensorData   map[string]any `json:"sensor_data"`
}

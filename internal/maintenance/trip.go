package maintenance

import (
	"fmt"
	"math"
	"time"

	"github.com/ukydev/vessel-ops/internal/models"
)

// CompleteTrip returns the state after a finished trip: engine hours grow by
// the trip duration (fractions kept), the trip counter by exactly one. The
// input state is never modified.
func CompleteTrip(state models.VesselState, tripDurationHours float64, tripDate string, now time.Time) (models.VesselState, error) {
	if tripDurationHours <= 0 || math.IsNaN(tripDurationHours) || math.IsInf(tripDurationHours, 0) {
		return state, fmt.Errorf("%w: got %v", ErrInvalidTripDuration, tripDurationHours)
	}
	date, err := models.ParseDate(tripDate)
	if err != nil {
		return state, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	next := state
	next.EngineHours += tripDurationHours
	next.TotalTrips++
	next.LastTripDate = models.FormatDate(date)
	next.UpdatedAt = now
	return next, nil
}

// ApplyPatch overwrites the counters present in patch. Counters never move
// backwards.
func ApplyPatch(state models.VesselState, patch models.StatePatch, now time.Time) (models.VesselState, error) {
	next := state
	if patch.EngineHours != nil {
		if *patch.EngineHours < state.EngineHours || math.IsNaN(*patch.EngineHours) {
			return state, fmt.Errorf("%w: engine_hours cannot decrease from %v to %v", ErrInvalidInput, state.EngineHours, *patch.EngineHours)
		}
		next.EngineHours = *patch.EngineHours
	}
	if patch.TotalTrips != nil {
		if *patch.TotalTrips < state.TotalTrips {
			return state, fmt.Errorf("%w: total_trips cannot decrease from %d to %d", ErrInvalidInput, state.TotalTrips, *patch.TotalTrips)
		}
		next.TotalTrips = *patch.TotalTrips
	}
	if patch.LastTripDate != nil {
		date, err := models.ParseDate(*patch.LastTripDate)
		if err != nil {
			return state, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		next.LastTripDate = models.FormatDate(date)
	}
	if patch.SensorData != nil {
		next.SensorData = patch.SensorData
	}
	next.UpdatedAt = now
	return next, nil
}

package models

// VesselSpec is one row of the fuel specification table.
type VesselSpec struct {
	VesselID              string  `json:"vessel_id"`
	FuelConsumptionPerDay float64 `json:"fuel_consumption_per_day"` // liters per 24h
	FuelCostUSDPerDay     float64 `json:"fuel_cost_usd_per_day"`
	HP                    float64 `json:"hp"`
	VesselType            string  `json:"vessel_type"`
	EngineType            string  `json:"engine_type"`
}

// FuelEstimateRequest describes a trip between two coordinates.
type FuelEstimateRequest struct {
	StartLat float64 `json:"start_lat"`
	StartLon float64 `json:"start_lon"`
	EndLat   float64 `json:"end_lat"`
	EndLon   float64 `json:"end_lon"`
	VesselID string  `json:"vessel_id,omitempty"`
}

// Start returns the departure point.
func (r FuelEstimateRequest) Start() Location {
	return Location{Lat: r.StartLat, Lon: r.StartLon}
}

// End returns the destination point.
func (r FuelEstimateRequest) End() Location {
	return Location{Lat: r.EndLat, Lon: r.EndLon}
}

// FuelEstimate is the computed fuel need for a trip.
type FuelEstimate struct {
	DistanceKm                 float64 `json:"distance_km"`
	EstimatedTripDurationHours float64 `json:"estimated_trip_duration_hours"`
	FuelConsumptionLiters      float64 `json:"fuel_consumption_liters"`
	VesselUsed                 string  `json:"vessel_used"`
	FuelCostUSD                float64 `json:"fuel_cost_usd"`
}

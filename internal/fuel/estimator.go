package fuel

import (
	"fmt"

	"github.com/ukydev/vessel-ops/internal/models"
)

// AverageVessel is reported when an estimate falls back to the table mean.
const AverageVessel = "Average Vessel"

// SpecSource provides the rows of the fuel spec table.
type SpecSource interface {
	Specs() ([]models.VesselSpec, error)
}

// Estimator computes trip fuel needs from the spec table.
type Estimator struct {
	source SpecSource
}

// NewEstimator creates an estimator reading from source.
func NewEstimator(source SpecSource) *Estimator {
	return &Estimator{source: source}
}

// Estimate computes distance, duration, fuel and cost of a straight-line trip.
// An empty or unknown vessel id uses the average of all rows.
func (e *Estimator) Estimate(req models.FuelEstimateRequest) (*models.FuelEstimate, error) {
	start, end := req.Start(), req.End()
	if err := ValidateLocation(start); err != nil {
		return nil, err
	}
	if err := ValidateLocation(end); err != nil {
		return nil, err
	}

	specs, err := e.source.Specs()
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, ErrNoVesselData
	}

	spec, used := average(specs), AverageVessel
	if req.VesselID != "" {
		if s, ok := find(specs, req.VesselID); ok {
			spec, used = s, s.VesselID
		}
	}

	distance := Haversine(start, end)
	hours := distance / AverageSpeedKmh
	return &models.FuelEstimate{
		DistanceKm:                 round2(distance),
		EstimatedTripDurationHours: round2(hours),
		FuelConsumptionLiters:      round2(spec.FuelConsumptionPerDay / 24 * hours),
		VesselUsed:                 used,
		FuelCostUSD:                round2(spec.FuelCostUSDPerDay / 24 * hours),
	}, nil
}

// Vessels lists the spec table.
func (e *Estimator) Vessels() ([]models.VesselSpec, error) {
	specs, err := e.source.Specs()
	if err != nil {
		return nil, err
	}
	if specs == nil {
		specs = []models.VesselSpec{}
	}
	return specs, nil
}

// Vessel returns one row of the spec table.
func (e *Estimator) Vessel(id string) (*models.VesselSpec, error) {
	specs, err := e.source.Specs()
	if err != nil {
		return nil, err
	}
	spec, ok := find(specs, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSpecNotFound, id)
	}
	return &spec, nil
}

func find(specs []models.VesselSpec, id string) (models.VesselSpec, bool) {
	for _, s := range specs {
		if s.VesselID == id {
			return s, true
		}
	}
	return models.VesselSpec{}, false
}

func average(specs []models.VesselSpec) models.VesselSpec {
	avg := models.VesselSpec{VesselID: AverageVessel, VesselType: "Average", EngineType: "Average"}
	for _, s := range specs {
		avg.FuelConsumptionPerDay += s.FuelConsumptionPerDay
		avg.FuelCostUSDPerDay += s.FuelCostUSDPerDay
		avg.HP += s.HP
	}
	n := float64(len(specs))
	avg.FuelConsumptionPerDay /= n
	avg.FuelCostUSDPerDay /= n
	avg.HP /= n
	return avg
}

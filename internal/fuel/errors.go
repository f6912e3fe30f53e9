package fuel

import "errors"

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrNoVesselData      = errors.New("no vessel data available")
	ErrSpecNotFound      = errors.New("vessel spec not found")
)

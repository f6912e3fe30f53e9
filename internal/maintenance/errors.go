package maintenance

import "errors"

var (
	ErrInvalidTripDuration = errors.New("trip duration must be greater than zero")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidRule         = errors.New("invalid maintenance rule")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnsupportedTrigger  = errors.New("unsupported trigger type")
	ErrStateNotFound       = errors.New("vessel state not found")
	ErrVesselNotFound      = errors.New("vessel not found")
	ErrRuleNotFound        = errors.New("maintenance rule not found")
	ErrTaskNotFound        = errors.New("maintenance task not found")
	ErrConcurrentUpdate    = errors.New("vessel state was modified concurrently")
)

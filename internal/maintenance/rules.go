package maintenance

import (
	"fmt"
	"math"
	"strings"

	"github.com/ukydev/vessel-ops/internal/models"
)

// DefaultRules is the starter rule book given to new users.
var DefaultRules = []models.CreateRuleRequest{
	{
		SystemID:      "engine",
		PartName:      "Engine oil",
		TriggerType:   models.TriggerHours,
		IntervalValue: 100,
		WarningBefore: 20,
		Description:   "Regular engine oil change",
	},
	{
		SystemID:      "engine",
		PartName:      "Fuel filter",
		TriggerType:   models.TriggerHours,
		IntervalValue: 300,
		WarningBefore: 30,
		Description:   "Fuel filter replacement",
	},
	{
		SystemID:      "nets",
		PartName:      "Net inspection",
		TriggerType:   models.TriggerTrips,
		IntervalValue: 3,
		WarningBefore: 1,
		Description:   "Thorough net inspection for tears and damage",
	},
	{
		SystemID:      "safety",
		PartName:      "Lifejacket check",
		TriggerType:   models.TriggerDays,
		IntervalValue: 180,
		WarningBefore: 14,
		Description:   "Inspect lifejackets for damage and expiration",
	},
	{
		SystemID:      "electronics",
		PartName:      "Battery check",
		TriggerType:   models.TriggerDays,
		IntervalValue: 365,
		WarningBefore: 30,
		Description:   "Check battery voltage and terminals",
	},
}

// ValidateRule checks a rule before it is stored.
func ValidateRule(req models.CreateRuleRequest) error {
	if strings.TrimSpace(req.SystemID) == "" {
		return fmt.Errorf("%w: system_id is required", ErrInvalidRule)
	}
	if strings.TrimSpace(req.PartName) == "" {
		return fmt.Errorf("%w: part_name is required", ErrInvalidRule)
	}
	if !models.IsValidTriggerType(req.TriggerType) {
		return fmt.Errorf("%w: trigger_type %q must be one of hours, days, trips, sensor", ErrInvalidRule, req.TriggerType)
	}
	if req.TriggerType != models.TriggerSensor && !(req.IntervalValue > 0) {
		return fmt.Errorf("%w: interval_value must be greater than zero", ErrInvalidRule)
	}
	if req.WarningBefore < 0 || math.IsNaN(req.WarningBefore) {
		return fmt.Errorf("%w: warning_before cannot be negative", ErrInvalidRule)
	}
	return nil
}

// ValidateRuleUpdate checks the fields of a partial rule update.
func ValidateRuleUpdate(req models.UpdateRuleRequest) error {
	if req.IsEmpty() {
		return fmt.Errorf("%w: no fields to update", ErrInvalidRule)
	}
	if req.IntervalValue != nil && !(*req.IntervalValue > 0) {
		return fmt.Errorf("%w: interval_value must be greater than zero", ErrInvalidRule)
	}
	if req.WarningBefore != nil && (*req.WarningBefore < 0 || math.IsNaN(*req.WarningBefore)) {
		return fmt.Errorf("%w: warning_before cannot be negative", ErrInvalidRule)
	}
	return nil
}

package maintenance

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ukydev/vessel-ops/internal/models"
)

const allOperationalMessage = "All systems operational"

// LatestLogFunc returns the most recent service log for a part, or nil when
// the part has never been serviced.
type LatestLogFunc func(systemID, partName string) *models.MaintenanceLog

// Calculator derives maintenance status from rules, vessel counters and the
// latest service logs. It does no I/O.
type Calculator struct {
	SystemNames map[string]string
	Sensors     *SensorRegistry
	Now         func() time.Time
}

// NewCalculator creates a calculator using the wall clock.
func NewCalculator(systemNames map[string]string, sensors *SensorRegistry) *Calculator {
	if sensors == nil {
		sensors = NewSensorRegistry()
	}
	return &Calculator{
		SystemNames: systemNames,
		Sensors:     sensors,
		Now:         time.Now,
	}
}

func (c *Calculator) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// SystemName returns the display name of a system, falling back to its id.
func (c *Calculator) SystemName(systemID string) string {
	if name, ok := c.SystemNames[systemID]; ok && name != "" {
		return name
	}
	return systemID
}

// Summarize computes the maintenance summary of one vessel. Systems are listed
// in the order their first rule appears, parts in rule order.
func (c *Calculator) Summarize(vesselID, vesselName string, rules []models.MaintenanceRule, state *models.VesselState, latest LatestLogFunc) (*models.VesselMaintenanceSummary, error) {
	if state == nil {
		return nil, fmt.Errorf("vessel %s: %w", vesselID, ErrStateNotFound)
	}
	if latest == nil {
		latest = func(string, string) *models.MaintenanceLog { return nil }
	}
	if vesselName == "" {
		vesselName = vesselID
	}

	var order []string
	partsBySystem := make(map[string][]models.PartStatus)
	for _, rule := range rules {
		part, err := c.PartStatus(rule, state, latest(rule.SystemID, rule.PartName))
		if err != nil {
			return nil, fmt.Errorf("rule %s/%s: %w", rule.SystemID, rule.PartName, err)
		}
		if _, seen := partsBySystem[rule.SystemID]; !seen {
			order = append(order, rule.SystemID)
		}
		partsBySystem[rule.SystemID] = append(partsBySystem[rule.SystemID], part)
	}

	systems := make([]models.SystemSummary, 0, len(order))
	overall := models.StatusOK
	for _, systemID := range order {
		system := c.aggregate(systemID, partsBySystem[systemID])
		if system.Status.Worse(overall) {
			overall = system.Status
		}
		systems = append(systems, system)
	}

	return &models.VesselMaintenanceSummary{
		VesselID:      vesselID,
		VesselName:    vesselName,
		State:         *state,
		Systems:       systems,
		OverallStatus: operational(overall),
		GeneratedAt:   c.now(),
	}, nil
}

func (c *Calculator) aggregate(systemID string, parts []models.PartStatus) models.SystemSummary {
	worst := models.StatusOK
	message := allOperationalMessage
	for _, p := range parts {
		// strict comparison keeps the first part of the worst rank
		if p.Status.Worse(worst) {
			worst = p.Status
			message = p.Message
		}
	}
	return models.SystemSummary{
		SystemID:       systemID,
		SystemName:     c.SystemName(systemID),
		Status:         operational(worst),
		SummaryMessage: message,
		Parts:          parts,
	}
}

func operational(s models.Status) models.Status {
	if s == models.StatusOK {
		return models.StatusOperational
	}
	return s
}

// PartStatus computes the status of a single rule.
func (c *Calculator) PartStatus(rule models.MaintenanceRule, state *models.VesselState, last *models.MaintenanceLog) (models.PartStatus, error) {
	if state == nil {
		return models.PartStatus{}, ErrStateNotFound
	}

	var baseline, current float64
	switch rule.TriggerType {
	case models.TriggerHours:
		current = state.EngineHours
		if last != nil {
			baseline = last.EngineHoursAtService
		}
	case models.TriggerTrips:
		current = float64(state.TotalTrips)
		if last != nil {
			baseline = float64(last.TripsAtService)
		}
	case models.TriggerDays:
		since, err := c.daysSince(rule, last)
		if err != nil {
			return models.PartStatus{}, err
		}
		current = float64(since)
	case models.TriggerSensor:
		return c.sensorStatus(rule, state, last), nil
	default:
		return models.PartStatus{}, fmt.Errorf("%w: %q", ErrUnsupportedTrigger, rule.TriggerType)
	}

	dueAt := baseline + rule.IntervalValue
	remaining := dueAt - current
	status := classify(remaining, rule.WarningBefore)

	unit := rule.TriggerType.Unit()
	var message string
	switch {
	case rule.IntervalValue <= 0:
		status = models.StatusOverdue
		message = fmt.Sprintf("%s is overdue (invalid interval %s %s)", rule.PartName, formatValue(rule.IntervalValue), unit)
	case status == models.StatusOverdue:
		message = fmt.Sprintf("%s is overdue by %s %s", rule.PartName, formatValue(-remaining), unit)
	default:
		message = fmt.Sprintf("%s due in %s %s", rule.PartName, formatValue(remaining), unit)
	}

	return models.PartStatus{
		Name:         rule.PartName,
		Status:       status,
		TriggerType:  rule.TriggerType,
		CurrentValue: &current,
		DueAtValue:   &dueAt,
		Remaining:    &remaining,
		Message:      message,
		LastService:  last,
	}, nil
}

// classify maps a remaining distance onto a status. Both boundaries are
// inclusive: remaining == 0 is overdue, remaining == warning is due soon.
func classify(remaining, warningBefore float64) models.Status {
	switch {
	case remaining <= 0:
		return models.StatusOverdue
	case remaining <= warningBefore:
		return models.StatusDueSoon
	default:
		return models.StatusOK
	}
}

// daysSince counts whole days since the last service. A part that was never
// serviced counts from the day its rule was created.
func (c *Calculator) daysSince(rule models.MaintenanceRule, last *models.MaintenanceLog) (int, error) {
	today := models.Today(c.now())

	var baseline time.Time
	switch {
	case last != nil:
		d, err := models.ParseDate(last.DoneAt)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		baseline = d
	case !rule.CreatedAt.IsZero():
		baseline = models.Today(rule.CreatedAt)
	default:
		baseline = today
	}

	days := int(today.Sub(baseline).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, nil
}

func (c *Calculator) sensorStatus(rule models.MaintenanceRule, state *models.VesselState, last *models.MaintenanceLog) models.PartStatus {
	result := c.Sensors.Evaluate(rule.PartName, state.SensorData)
	return models.PartStatus{
		Name:         rule.PartName,
		Status:       result.Status,
		TriggerType:  rule.TriggerType,
		CurrentValue: result.Value,
		DueAtValue:   result.Limit,
		Message:      result.Message,
		LastService:  last,
	}
}

func formatValue(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// LatestLogs indexes a vessel's logs by part, keeping the most recent service
// per (system, part). Ties on done_at go to the later created_at.
func LatestLogs(logs []models.MaintenanceLog) LatestLogFunc {
	latest := make(map[[2]string]*models.MaintenanceLog, len(logs))
	for i := range logs {
		l := &logs[i]
		key := [2]string{l.SystemID, l.PartName}
		if cur, ok := latest[key]; !ok || newer(l, cur) {
			latest[key] = l
		}
	}
	return func(systemID, partName string) *models.MaintenanceLog {
		return latest[[2]string{systemID, partName}]
	}
}

func newer(a, b *models.MaintenanceLog) bool {
	da, errA := models.ParseDate(a.DoneAt)
	db, errB := models.ParseDate(b.DoneAt)
	switch {
	case errA != nil && errB == nil:
		return false
	case errA == nil && errB != nil:
		return true
	case errA == nil && !da.Equal(db):
		return da.After(db)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

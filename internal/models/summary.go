package models

import "time"

// Status is the maintenance status of a part, system or vessel.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDueSoon  Status = "due_soon"
	StatusOverdue  Status = "overdue"
	StatusCritical Status = "critical"
	// StatusOperational is how an all-ok system or vessel is reported.
	StatusOperational Status = "operational"
	// StatusOffline can only be reported by crew; the calculator never
	// produces it.
	StatusOffline Status = "offline"
)

// Rank orders statuses by severity: ok < due_soon < overdue < critical.
func (s Status) Rank() int {
	switch s {
	case StatusDueSoon:
		return 1
	case StatusOverdue:
		return 2
	case StatusCritical:
		return 3
	default:
		return 0
	}
}

// Worse reports whether s is more severe than other.
func (s Status) Worse(other Status) bool {
	return s.Rank() > other.Rank()
}

// PartStatus is the computed status of one rule.
type PartStatus struct {
	Name         string          `json:"name"`
	Status       Status          `json:"status"`
	TriggerType  TriggerType     `json:"trigger_type"`
	CurrentValue *float64        `json:"current_value,omitempty"`
	DueAtValue   *float64        `json:"due_at_value,omitempty"`
	Remaining    *float64        `json:"remaining,omitempty"`
	Message      string          `json:"message"`
	LastService  *MaintenanceLog `json:"last_service,omitempty"`
}

// SystemSummary aggregates the parts of one vessel system.
type SystemSummary struct {
	SystemID       string       `json:"system_id"`
	SystemName     string       `json:"system_name"`
	Status         Status       `json:"status"`
	SummaryMessage string       `json:"summary_message"`
	Parts          []PartStatus `json:"parts"`
	// ReportedStatus and OpenTasks come from the vessel's system records.
	ReportedStatus Status `json:"reported_status,omitempty"`
	OpenTasks      []Task `json:"open_tasks,omitempty"`
}

// VesselMaintenanceSummary is the full maintenance picture for a vessel.
type VesselMaintenanceSummary struct {
	VesselID      string          `json:"vessel_id"`
	VesselName    string          `json:"vessel_name"`
	State         VesselState     `json:"state"`
	Systems       []SystemSummary `json:"systems"`
	OverallStatus Status          `json:"overall_status"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

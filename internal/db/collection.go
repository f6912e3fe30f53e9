package db

import (
	"context"
	"errors"

	"github.com/ukydev/vessel-ops/internal/models"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrInvalidID        = errors.New("invalid document ID")
	ErrRevisionConflict = errors.New("revision conflict")
	ErrNilCollection    = errors.New("mongo collection is nil")
)

// VesselCollection defines the interface for vessel data operations.
type VesselCollection interface {
	InsertVessel(ctx context.Context, vessel models.Vessel) error
	FindVessels(ctx context.Context, owner string) ([]models.Vessel, error)
	FindVesselByID(ctx context.Context, owner, id string) (*models.Vessel, error)
	DeleteVessel(ctx context.Context, owner, id string) error
	// UpdateVessel replaces the editable fields and returns the stored vessel.
	UpdateVessel(ctx context.Context, owner, id string, update models.CreateVesselRequest) (*models.Vessel, error)
	SetSystemStatus(ctx context.Context, owner, id, systemID string, status models.Status) (*models.Vessel, error)
	AddTask(ctx context.Context, owner, id, systemID string, task models.Task) (*models.Vessel, error)
	// UpdateTask and DeleteTask return ErrNotFound when the vessel, system or
	// task does not exist.
	UpdateTask(ctx context.Context, owner, id, systemID, taskID string, update models.UpdateTaskRequest) (*models.Vessel, error)
	DeleteTask(ctx context.Context, owner, id, systemID, taskID string) error
}

// StateCollection defines the interface for vessel counter operations.
type StateCollection interface {
	FindState(ctx context.Context, owner, vesselID string) (*models.VesselState, error)
	// EnsureState returns the stored state, inserting initial when none exists.
	EnsureState(ctx context.Context, initial models.VesselState) (*models.VesselState, error)
	// SwapState replaces the state only if its stored revision still equals
	// state.Revision, and bumps the revision.
	SwapState(ctx context.Context, state models.VesselState) (*models.VesselState, error)
	DeleteState(ctx context.Context, owner, vesselID string) error
}

// RuleCollection defines the interface for maintenance rule operations.
type RuleCollection interface {
	InsertRules(ctx context.Context, rules ...models.MaintenanceRule) error
	FindRules(ctx context.Context, owner, systemID string) ([]models.MaintenanceRule, error)
	CountRules(ctx context.Context, owner string) (int64, error)
	UpdateRule(ctx context.Context, owner, id string, update models.UpdateRuleRequest) (*models.MaintenanceRule, error)
	DeleteRule(ctx context.Context, owner, id string) error
}

// LogCollection defines the interface for maintenance log operations. Logs
// are append-only.
type LogCollection interface {
	InsertLog(ctx context.Context, log models.MaintenanceLog) error
	FindLogs(ctx context.Context, owner, vesselID string, filter models.LogFilter) ([]models.MaintenanceLog, error)
	// FindLatestLog returns nil without error when the part was never serviced.
	FindLatestLog(ctx context.Context, owner, vesselID, systemID, partName string) (*models.MaintenanceLog, error)
}

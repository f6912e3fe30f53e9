// Package dbtest provides testify mocks of the db collections.
package dbtest

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/vessel-ops/internal/db"
	"github.com/ukydev/vessel-ops/internal/models"
)

var (
	_ db.UserCollection   = (*MockUserCollection)(nil)
	_ db.VesselCollection = (*MockVesselCollection)(nil)
	_ db.StateCollection  = (*MockStateCollection)(nil)
	_ db.RuleCollection   = (*MockRuleCollection)(nil)
	_ db.LogCollection    = (*MockLogCollection)(nil)
)

// MockUserCollection is a mock implementation of db.UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVesselCollection is a mock implementation of db.VesselCollection
type MockVesselCollection struct {
	mock.Mock
}

func (m *MockVesselCollection) InsertVessel(ctx context.Context, vessel models.Vessel) error {
	args := m.Called(ctx, vessel)
	return args.Error(0)
}

func (m *MockVesselCollection) FindVessels(ctx context.Context, owner string) ([]models.Vessel, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vessel), args.Error(1)
}

func (m *MockVesselCollection) FindVesselByID(ctx context.Context, owner, id string) (*models.Vessel, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vessel), args.Error(1)
}

func (m *MockVesselCollection) DeleteVessel(ctx context.Context, owner, id string) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

func (m *MockVesselCollection) UpdateVessel(ctx context.Context, owner, id string, update models.CreateVesselRequest) (*models.Vessel, error) {
	args := m.Called(ctx, owner, id, update)
	return vesselResult(args)
}

func (m *MockVesselCollection) SetSystemStatus(ctx context.Context, owner, id, systemID string, status models.Status) (*models.Vessel, error) {
	args := m.Called(ctx, owner, id, systemID, status)
	return vesselResult(args)
}

func (m *MockVesselCollection) AddTask(ctx context.Context, owner, id, systemID string, task models.Task) (*models.Vessel, error) {
	args := m.Called(ctx, owner, id, systemID, task)
	return vesselResult(args)
}

func (m *MockVesselCollection) UpdateTask(ctx context.Context, owner, id, systemID, taskID string, update models.UpdateTaskRequest) (*models.Vessel, error) {
	args := m.Called(ctx, owner, id, systemID, taskID, update)
	return vesselResult(args)
}

func (m *MockVesselCollection) DeleteTask(ctx context.Context, owner, id, systemID, taskID string) error {
	args := m.Called(ctx, owner, id, systemID, taskID)
	return args.Error(0)
}

func vesselResult(args mock.Arguments) (*models.Vessel, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vessel), args.Error(1)
}

// MockStateCollection is a mock implementation of db.StateCollection
type MockStateCollection struct {
	mock.Mock
}

func (m *MockStateCollection) FindState(ctx context.Context, owner, vesselID string) (*models.VesselState, error) {
	args := m.Called(ctx, owner, vesselID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VesselState), args.Error(1)
}

func (m *MockStateCollection) EnsureState(ctx context.Context, initial models.VesselState) (*models.VesselState, error) {
	args := m.Called(ctx, initial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VesselState), args.Error(1)
}

func (m *MockStateCollection) SwapState(ctx context.Context, state models.VesselState) (*models.VesselState, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VesselState), args.Error(1)
}

func (m *MockStateCollection) DeleteState(ctx context.Context, owner, vesselID string) error {
	args := m.Called(ctx, owner, vesselID)
	return args.Error(0)
}

// MockRuleCollection is a mock implementation of db.RuleCollection
type MockRuleCollection struct {
	mock.Mock
}

func (m *MockRuleCollection) InsertRules(ctx context.Context, rules ...models.MaintenanceRule) error {
	args := m.Called(ctx, rules)
	return args.Error(0)
}

func (m *MockRuleCollection) FindRules(ctx context.Context, owner, systemID string) ([]models.MaintenanceRule, error) {
	args := m.Called(ctx, owner, systemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceRule), args.Error(1)
}

func (m *MockRuleCollection) CountRules(ctx context.Context, owner string) (int64, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRuleCollection) UpdateRule(ctx context.Context, owner, id string, update models.UpdateRuleRequest) (*models.MaintenanceRule, error) {
	args := m.Called(ctx, owner, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceRule), args.Error(1)
}

func (m *MockRuleCollection) DeleteRule(ctx context.Context, owner, id string) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

// MockLogCollection is a mock implementation of db.LogCollection
type MockLogCollection struct {
	mock.Mock
}

func (m *MockLogCollection) InsertLog(ctx context.Context, log models.MaintenanceLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockLogCollection) FindLogs(ctx context.Context, owner, vesselID string, filter models.LogFilter) ([]models.MaintenanceLog, error) {
	args := m.Called(ctx, owner, vesselID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceLog), args.Error(1)
}

func (m *MockLogCollection) FindLatestLog(ctx context.Context, owner, vesselID, systemID, partName string) (*models.MaintenanceLog, error) {
	args := m.Called(ctx, owner, vesselID, systemID, partName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceLog), args.Error(1)
}

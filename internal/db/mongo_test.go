package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/vessel-ops/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// testStore connects to MONGO_URI and returns a store on a scratch database.
// Tests are skipped when no MongoDB is available.
func testStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := ConnectMongo(ctx, uri)
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
	}
	database := client.Database("test_vessel_ops")
	require.NoError(t, database.Drop(ctx))
	t.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	store := NewStore(database)
	require.NoError(t, store.EnsureIndexes(ctx))
	return store
}

func TestConnectMongo_BadURI(t *testing.T) {
	client, err := ConnectMongo(context.Background(), "mongodb://bad:uri")
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestCollections_NilCollection(t *testing.T) {
	ctx := context.Background()

	assert.ErrorIs(t, (&MongoVesselCollection{}).InsertVessel(ctx, models.Vessel{}), ErrNilCollection)
	_, err := (&MongoStateCollection{}).FindState(ctx, "u", "v")
	assert.ErrorIs(t, err, ErrNilCollection)
	assert.ErrorIs(t, (&MongoRuleCollection{}).InsertRules(ctx, models.MaintenanceRule{}), ErrNilCollection)
	assert.ErrorIs(t, (&MongoLogCollection{}).InsertLog(ctx, models.MaintenanceLog{}), ErrNilCollection)
	assert.ErrorIs(t, (&MongoUserCollection{}).InsertUser(ctx, models.User{}), ErrNilCollection)
}

func TestObjectID_Invalid(t *testing.T) {
	_, err := objectID("not-a-hex-id")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestMongoUserCollection_Integration(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	user := models.User{
		ID:           primitive.NewObjectID(),
		Email:        "skipper@example.com",
		Name:         "Skipper",
		PasswordHash: "hashedpassword",
		Role:         models.RoleOwner,
		IsActive:     true,
	}
	require.NoError(t, store.Users.InsertUser(ctx, user))

	found, err := store.Users.FindUserByEmail(ctx, "skipper@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.NotZero(t, found.CreatedAt)

	_, err = store.Users.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Users.UpdateLastLogin(ctx, user.ID.Hex()))
	found, err = store.Users.FindUserByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.NotNil(t, found.LastLogin)

	// email is unique
	user.ID = primitive.NewObjectID()
	err = store.Users.InsertUser(ctx, user)
	assert.True(t, mongo.IsDuplicateKeyError(err))
}

func TestMongoVesselCollection_Integration(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	vessel := models.Vessel{ID: primitive.NewObjectID(), Owner: "owner-1", Name: "IMUL-001", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Vessels.InsertVessel(ctx, vessel))

	found, err := store.Vessels.FindVesselByID(ctx, "owner-1", vessel.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "IMUL-001", found.Name)

	// other owners cannot see it
	_, err = store.Vessels.FindVesselByID(ctx, "owner-2", vessel.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	vessels, err := store.Vessels.FindVessels(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, vessels, 1)

	id := vessel.ID.Hex()
	updated, err := store.Vessels.UpdateVessel(ctx, "owner-1", id, models.CreateVesselRequest{Name: "Sea Spray", FuelSpecID: "IMUL-001"})
	require.NoError(t, err)
	assert.Equal(t, "Sea Spray", updated.Name)
	_, err = store.Vessels.UpdateVessel(ctx, "owner-2", id, models.CreateVesselRequest{Name: "Stolen"})
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err = store.Vessels.SetSystemStatus(ctx, "owner-1", id, "engine", models.StatusOffline)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOffline, updated.Systems["engine"].Status)

	task := models.Task{ID: "t1", Task: "Replace impeller", Due: "2025-12-05", Priority: models.PriorityHigh}
	_, err = store.Vessels.AddTask(ctx, "owner-1", id, "engine", task)
	require.NoError(t, err)
	done := true
	updated, err = store.Vessels.UpdateTask(ctx, "owner-1", id, "engine", "t1", models.UpdateTaskRequest{Completed: &done})
	require.NoError(t, err)
	require.Len(t, updated.Systems["engine"].Tasks, 1)
	assert.True(t, updated.Systems["engine"].Tasks[0].Completed)
	assert.Equal(t, models.StatusOffline, updated.Systems["engine"].Status)

	_, err = store.Vessels.UpdateTask(ctx, "owner-1", id, "engine", "missing", models.UpdateTaskRequest{Completed: &done})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, store.Vessels.DeleteTask(ctx, "owner-1", id, "engine", "t1"))
	assert.ErrorIs(t, store.Vessels.DeleteTask(ctx, "owner-1", id, "engine", "t1"), ErrNotFound)

	require.NoError(t, store.Vessels.DeleteVessel(ctx, "owner-1", vessel.ID.Hex()))
	assert.ErrorIs(t, store.Vessels.DeleteVessel(ctx, "owner-1", vessel.ID.Hex()), ErrNotFound)
}

func TestMongoStateCollection_SwapState(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	initial := models.NewVesselState("owner-1", "vessel-1", time.Now().UTC())
	state, err := store.States.EnsureState(ctx, initial)
	require.NoError(t, err)
	assert.Equal(t, int64(0), state.Revision)

	// a second ensure must not reset counters
	next := *state
	next.EngineHours = 12.5
	next.TotalTrips = 1
	swapped, err := store.States.SwapState(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swapped.Revision)

	state, err = store.States.EnsureState(ctx, initial)
	require.NoError(t, err)
	assert.Equal(t, 12.5, state.EngineHours)
	assert.Equal(t, 1, state.TotalTrips)

	// writing with the stale revision fails
	_, err = store.States.SwapState(ctx, next)
	assert.ErrorIs(t, err, ErrRevisionConflict)

	require.NoError(t, store.States.DeleteState(ctx, "owner-1", "vessel-1"))
	_, err = store.States.FindState(ctx, "owner-1", "vessel-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStateUpdate_SensorData(t *testing.T) {
	base := models.VesselState{Owner: "owner-1", VesselID: "vessel-1", EngineHours: 12, TotalTrips: 3, Revision: 4}

	t.Run("empty map unsets stored readings", func(t *testing.T) {
		state := base
		state.SensorData = map[string]any{}
		raw, err := bson.Marshal(stateUpdate(state))
		require.NoError(t, err)

		_, err = bson.Raw(raw).LookupErr("$set", "sensor_data")
		assert.Error(t, err)
		_, err = bson.Raw(raw).LookupErr("$unset", "sensor_data")
		assert.NoError(t, err)
		_, err = bson.Raw(raw).LookupErr("$unset", "last_trip_date")
		assert.NoError(t, err)
	})

	t.Run("readings are set", func(t *testing.T) {
		state := base
		state.LastTripDate = "2025-11-29"
		state.SensorData = map[string]any{"coolant_temp_c": 91.0}
		raw, err := bson.Marshal(stateUpdate(state))
		require.NoError(t, err)

		v, err := bson.Raw(raw).LookupErr("$set", "sensor_data", "coolant_temp_c")
		require.NoError(t, err)
		assert.Equal(t, 91.0, v.Double())
		v, err = bson.Raw(raw).LookupErr("$set", "revision")
		require.NoError(t, err)
		assert.Equal(t, int64(4), v.Int64())
		_, err = bson.Raw(raw).LookupErr("$unset")
		assert.Error(t, err)
	})
}

func TestMongoStateCollection_ClearSensorData(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	state, err := store.States.EnsureState(ctx, models.NewVesselState("owner-1", "vessel-2", time.Now().UTC()))
	require.NoError(t, err)
	next := *state
	next.SensorData = map[string]any{"coolant_temp_c": 104.0}
	saved, err := store.States.SwapState(ctx, next)
	require.NoError(t, err)

	cleared := *saved
	cleared.SensorData = map[string]any{}
	_, err = store.States.SwapState(ctx, cleared)
	require.NoError(t, err)

	stored, err := store.States.FindState(ctx, "owner-1", "vessel-2")
	require.NoError(t, err)
	assert.Empty(t, stored.SensorData)
	assert.Equal(t, int64(2), stored.Revision)
}

func TestMongoRuleCollection_Integration(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	oil := models.MaintenanceRule{ID: primitive.NewObjectID(), Owner: "owner-1", SystemID: "engine", PartName: "Engine oil",
		TriggerType: models.TriggerHours, IntervalValue: 100, WarningBefore: 20, CreatedAt: now}
	nets := models.MaintenanceRule{ID: primitive.NewObjectID(), Owner: "owner-1", SystemID: "nets", PartName: "Net inspection",
		TriggerType: models.TriggerTrips, IntervalValue: 3, WarningBefore: 1, CreatedAt: now.Add(time.Second)}
	require.NoError(t, store.Rules.InsertRules(ctx, oil, nets))

	count, err := store.Rules.CountRules(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	engineRules, err := store.Rules.FindRules(ctx, "owner-1", "engine")
	require.NoError(t, err)
	require.Len(t, engineRules, 1)
	assert.Equal(t, "Engine oil", engineRules[0].PartName)

	interval := 150.0
	updated, err := store.Rules.UpdateRule(ctx, "owner-1", oil.ID.Hex(), models.UpdateRuleRequest{IntervalValue: &interval})
	require.NoError(t, err)
	assert.Equal(t, 150.0, updated.IntervalValue)
	assert.Equal(t, 20.0, updated.WarningBefore)

	_, err = store.Rules.UpdateRule(ctx, "owner-2", oil.ID.Hex(), models.UpdateRuleRequest{IntervalValue: &interval})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Rules.DeleteRule(ctx, "owner-1", nets.ID.Hex()))
	all, err := store.Rules.FindRules(ctx, "owner-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMongoLogCollection_FindLatestLog(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	insert := func(doneAt string, hours float64) {
		require.NoError(t, store.Logs.InsertLog(ctx, models.MaintenanceLog{
			ID: primitive.NewObjectID(), Owner: "owner-1", VesselID: "vessel-1",
			SystemID: "engine", PartName: "Engine oil", DoneAt: doneAt,
			EngineHoursAtService: hours, CreatedAt: time.Now().UTC(),
		}))
	}
	insert("2025-03-01", 1000)
	insert("2025-09-01", 1200)
	insert("2025-06-01", 1100)

	latest, err := store.Logs.FindLatestLog(ctx, "owner-1", "vessel-1", "engine", "Engine oil")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2025-09-01", latest.DoneAt)
	assert.Equal(t, 1200.0, latest.EngineHoursAtService)

	none, err := store.Logs.FindLatestLog(ctx, "owner-1", "vessel-1", "engine", "Fuel filter")
	require.NoError(t, err)
	assert.Nil(t, none)

	logs, err := store.Logs.FindLogs(ctx, "owner-1", "vessel-1", models.LogFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "2025-09-01", logs[0].DoneAt)
	assert.Equal(t, "2025-06-01", logs[1].DoneAt)
}

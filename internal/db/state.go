package db

import (
	"context"
	"errors"

	"github.com/ukydev/vessel-ops/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStateCollection implements StateCollection for MongoDB.
type MongoStateCollection struct {
	Collection *mongo.Collection
}

func stateFilter(owner, vesselID string) bson.M {
	return bson.M{"user_id": owner, "vessel_id": vesselID}
}

// FindState returns the counters of a vessel.
func (c *MongoStateCollection) FindState(ctx context.Context, owner, vesselID string) (*models.VesselState, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	var state models.VesselState
	err := c.Collection.FindOne(ctx, stateFilter(owner, vesselID)).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &state, nil
}

// EnsureState upserts initial with $setOnInsert so an existing state is never
// overwritten, then returns whatever is stored.
func (c *MongoStateCollection) EnsureState(ctx context.Context, initial models.VesselState) (*models.VesselState, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var state models.VesselState
	err := c.Collection.FindOneAndUpdate(
		ctx,
		stateFilter(initial.Owner, initial.VesselID),
		bson.M{"$setOnInsert": initial},
		opts,
	).Decode(&state)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// SwapState writes state if nobody else changed it since it was read.
func (c *MongoStateCollection) SwapState(ctx context.Context, state models.VesselState) (*models.VesselState, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	expected := state.Revision
	state.Revision++

	filter := stateFilter(state.Owner, state.VesselID)
	filter["revision"] = expected
	result, err := c.Collection.UpdateOne(ctx, filter, stateUpdate(state))
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrRevisionConflict
	}
	return &state, nil
}

// stateUpdate builds the update document for SwapState. Empty optional
// fields are unset, so clearing sensor data or the last trip date sticks.
func stateUpdate(state models.VesselState) bson.M {
	set := bson.M{
		"engine_hours": state.EngineHours,
		"total_trips":  state.TotalTrips,
		"updated_at":   state.UpdatedAt,
		"revision":     state.Revision,
	}
	unset := bson.M{}
	if state.LastTripDate != "" {
		set["last_trip_date"] = state.LastTripDate
	} else {
		unset["last_trip_date"] = ""
	}
	if len(state.SensorData) > 0 {
		set["sensor_data"] = state.SensorData
	} else {
		unset["sensor_data"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

// DeleteState removes the counters of a vessel.
func (c *MongoStateCollection) DeleteState(ctx context.Context, owner, vesselID string) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	_, err := c.Collection.DeleteOne(ctx, stateFilter(owner, vesselID))
	return err
}

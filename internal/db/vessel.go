package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ukydev/vessel-ops/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoVesselCollection implements VesselCollection for MongoDB.
type MongoVesselCollection struct {
	Collection *mongo.Collection
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// InsertVessel inserts a vessel record into the collection.
func (c *MongoVesselCollection) InsertVessel(ctx context.Context, vessel models.Vessel) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	_, err := c.Collection.InsertOne(ctx, vessel)
	return err
}

// FindVessels lists the vessels of an owner, oldest first.
func (c *MongoVesselCollection) FindVessels(ctx context.Context, owner string) ([]models.Vessel, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := c.Collection.Find(ctx, bson.M{"user_id": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	vessels := []models.Vessel{}
	if err := cursor.All(ctx, &vessels); err != nil {
		return nil, err
	}
	return vessels, nil
}

// FindVesselByID finds a vessel by its ID, scoped to its owner.
func (c *MongoVesselCollection) FindVesselByID(ctx context.Context, owner, id string) (*models.Vessel, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var vessel models.Vessel
	err = c.Collection.FindOne(ctx, bson.M{"_id": oid, "user_id": owner}).Decode(&vessel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vessel, nil
}

// DeleteVessel deletes a vessel by its ID.
func (c *MongoVesselCollection) DeleteVessel(ctx context.Context, owner, id string) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": owner})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateVessel replaces the name, type and fuel spec of a vessel.
func (c *MongoVesselCollection) UpdateVessel(ctx context.Context, owner, id string, update models.CreateVesselRequest) (*models.Vessel, error) {
	set := bson.M{
		"name":         update.Name,
		"type":         update.Type,
		"fuel_spec_id": update.FuelSpecID,
		"updated_at":   time.Now().UTC(),
	}
	return c.findAndUpdate(ctx, owner, id, bson.M{"$set": set})
}

// SetSystemStatus records the reported status of a system, creating its
// record on first use.
func (c *MongoVesselCollection) SetSystemStatus(ctx context.Context, owner, id, systemID string, status models.Status) (*models.Vessel, error) {
	prefix := systemPath(systemID)
	set := bson.M{
		prefix + ".status":     status,
		prefix + ".updated_at": time.Now().UTC(),
	}
	return c.findAndUpdate(ctx, owner, id, bson.M{"$set": set})
}

// AddTask appends a task to a system.
func (c *MongoVesselCollection) AddTask(ctx context.Context, owner, id, systemID string, task models.Task) (*models.Vessel, error) {
	prefix := systemPath(systemID)
	update := bson.M{
		"$push": bson.M{prefix + ".tasks": task},
		"$set":  bson.M{prefix + ".updated_at": time.Now().UTC()},
	}
	return c.findAndUpdate(ctx, owner, id, update)
}

// UpdateTask changes the provided fields of one task.
func (c *MongoVesselCollection) UpdateTask(ctx context.Context, owner, id, systemID, taskID string, update models.UpdateTaskRequest) (*models.Vessel, error) {
	prefix := systemPath(systemID)
	set := bson.M{prefix + ".updated_at": time.Now().UTC()}
	field := prefix + ".tasks.$[t]."
	if update.Task != nil {
		set[field+"task"] = *update.Task
	}
	if update.Due != nil {
		set[field+"due"] = *update.Due
	}
	if update.Priority != nil {
		set[field+"priority"] = *update.Priority
	}
	if update.Completed != nil {
		set[field+"completed"] = *update.Completed
	}

	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid, "user_id": owner, prefix + ".tasks.id": taskID}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetArrayFilters(options.ArrayFilters{Filters: []interface{}{bson.M{"t.id": taskID}}})
	return c.decodeUpdated(c.Collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts))
}

// DeleteTask removes one task from a system.
func (c *MongoVesselCollection) DeleteTask(ctx context.Context, owner, id, systemID, taskID string) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	prefix := systemPath(systemID)
	filter := bson.M{"_id": oid, "user_id": owner, prefix + ".tasks.id": taskID}
	result, err := c.Collection.UpdateOne(ctx, filter, bson.M{"$pull": bson.M{prefix + ".tasks": bson.M{"id": taskID}}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// systemPath is the document path of a system record. Callers validate
// systemID so it cannot contain dots or a leading $.
func systemPath(systemID string) string {
	return "systems." + systemID
}

func (c *MongoVesselCollection) findAndUpdate(ctx context.Context, owner, id string, update bson.M) (*models.Vessel, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return c.decodeUpdated(c.Collection.FindOneAndUpdate(ctx, bson.M{"_id": oid, "user_id": owner}, update, opts))
}

func (c *MongoVesselCollection) decodeUpdated(result *mongo.SingleResult) (*models.Vessel, error) {
	var vessel models.Vessel
	if err := result.Decode(&vessel); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vessel, nil
}

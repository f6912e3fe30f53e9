package db

import (
	"context"
	"errors"
	"time"

	"github.com/ukydev/vessel-ops/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRuleCollection implements RuleCollection for MongoDB.
type MongoRuleCollection struct {
	Collection *mongo.Collection
}

// InsertRules inserts one or more rules.
func (c *MongoRuleCollection) InsertRules(ctx context.Context, rules ...models.MaintenanceRule) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	if len(rules) == 0 {
		return nil
	}
	docs := make([]interface{}, len(rules))
	for i, r := range rules {
		docs[i] = r
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return err
}

// FindRules lists an owner's rules in creation order, optionally for one system.
func (c *MongoRuleCollection) FindRules(ctx context.Context, owner, systemID string) ([]models.MaintenanceRule, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	filter := bson.M{"user_id": owner}
	if systemID != "" {
		filter["system_id"] = systemID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rules := []models.MaintenanceRule{}
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// CountRules counts an owner's rules.
func (c *MongoRuleCollection) CountRules(ctx context.Context, owner string) (int64, error) {
	if c.Collection == nil {
		return 0, ErrNilCollection
	}
	return c.Collection.CountDocuments(ctx, bson.M{"user_id": owner})
}

// UpdateRule applies a partial update and returns the stored rule.
func (c *MongoRuleCollection) UpdateRule(ctx context.Context, owner, id string, update models.UpdateRuleRequest) (*models.MaintenanceRule, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.IntervalValue != nil {
		set["interval_value"] = *update.IntervalValue
	}
	if update.WarningBefore != nil {
		set["warning_before"] = *update.WarningBefore
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rule models.MaintenanceRule
	err = c.Collection.FindOneAndUpdate(ctx, bson.M{"_id": oid, "user_id": owner}, bson.M{"$set": set}, opts).Decode(&rule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// DeleteRule deletes a rule by its ID.
func (c *MongoRuleCollection) DeleteRule(ctx context.Context, owner, id string) error {
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

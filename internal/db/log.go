package db

import (
	"context"
	"errors"

	"github.com/ukydev/vessel-ops/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLogCollection implements LogCollection for MongoDB.
type MongoLogCollection struct {
	Collection *mongo.Collection
}

// newestFirst sorts by service date, then insertion time.
var newestFirst = bson.D{{Key: "done_at", Value: -1}, {Key: "created_at", Value: -1}}

// InsertLog appends a maintenance log.
func (c *MongoLogCollection) InsertLog(ctx context.Context, log models.MaintenanceLog) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	_, err := c.Collection.InsertOne(ctx, log)
	return err
}

// FindLogs lists a vessel's logs, most recent first.
func (c *MongoLogCollection) FindLogs(ctx context.Context, owner, vesselID string, filter models.LogFilter) ([]models.MaintenanceLog, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	query := bson.M{"user_id": owner, "vessel_id": vesselID}
	if filter.SystemID != "" {
		query["system_id"] = filter.SystemID
	}
	if filter.PartName != "" {
		query["part_name"] = filter.PartName
	}
	opts := options.Find().SetSort(newestFirst)
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := c.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []models.MaintenanceLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// FindLatestLog returns the most recent service of one part.
func (c *MongoLogCollection) FindLatestLog(ctx context.Context, owner, vesselID, systemID, partName string) (*models.MaintenanceLog, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	query := bson.M{
		"user_id":   owner,
		"vessel_id": vesselID,
		"system_id": systemID,
		"part_name": partName,
	}
	var log models.MaintenanceLog
	err := c.Collection.FindOne(ctx, query, options.FindOne().SetSort(newestFirst)).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	UsersCollection   = "users"
	VesselsCollection = "vessels"
	StatesCollection  = "vessel_states"
	RulesCollection   = "maintenance_rules"
	LogsCollection    = "maintenance_logs"
)

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// Store bundles the collections used by the service.
type Store struct {
	Users   *MongoUserCollection
	Vessels *MongoVesselCollection
	States  *MongoStateCollection
	Rules   *MongoRuleCollection
	Logs    *MongoLogCollection
}

// NewStore wires every collection of the given database.
func NewStore(database *mongo.Database) *Store {
	return &Store{
		Users:   &MongoUserCollection{Collection: database.Collection(UsersCollection)},
		Vessels: &MongoVesselCollection{Collection: database.Collection(VesselsCollection)},
		States:  &MongoStateCollection{Collection: database.Collection(StatesCollection)},
		Rules:   &MongoRuleCollection{Collection: database.Collection(RulesCollection)},
		Logs:    &MongoLogCollection{Collection: database.Collection(LogsCollection)},
	}
}

// EnsureIndexes creates the indexes the queries rely on. One state document
// per vessel is enforced here.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{s.Users.Collection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{s.Vessels.Collection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		}},
		{s.States.Collection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "vessel_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{s.Rules.Collection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "system_id", Value: 1}}},
		}},
		{s.Logs.Collection, []mongo.IndexModel{
			{Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "vessel_id", Value: 1},
				{Key: "system_id", Value: 1},
				{Key: "part_name", Value: 1},
				{Key: "done_at", Value: -1},
			}},
		}},
	}
	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateMany(ctx, idx.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

// Package indexes creates the MongoDB indexes the stores rely on.
package indexes

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAll creates every index the application queries against.
// Creation is idempotent, so this runs on every startup.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	// Email uniqueness is enforced here, not in application code, so
	// concurrent registrations cannot race past the duplicate check.
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	scoped := []struct {
		collection string
		field      string
	}{
		{"clients", "user"},
		{"projects", "user"},
		{"projects", "client"},
		{"sprints", "project"},
		{"tasks", "project"},
		{"tasks", "sprint"},
	}
	for _, idx := range scoped {
		_, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: idx.field, Value: 1}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

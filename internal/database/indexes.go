package database

import (
	"context"
	"fmt"

	"github.com/charfaouimohammed/Atend-X/internal/models"
	"github.com/charfaouimohammed/Atend-X/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the invariants depend on. The partial
// unique index on sessions is what makes "one active session per admin"
// hold under concurrent starts: the insert itself is the check-and-set.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(store.ColStudents).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "cne", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("students cne index: %w", err)
	}

	_, err = db.Collection(store.ColAdmins).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("admins email index: %w", err)
	}

	_, err = db.Collection(store.ColSessions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "admin_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": models.SessionActive}),
	})
	if err != nil {
		return fmt.Errorf("sessions active index: %w", err)
	}

	return nil
}

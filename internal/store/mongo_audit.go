package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/charfaouimohammed/Atend-X/internal/models"
)

type mongoAuditStore struct {
	col *mongo.Collection
}

func (s *mongoAuditStore) Insert(ctx context.Context, l *models.AuditLog) error {
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/charfaouimohammed/Atend-X/internal/errs"
	"github.com/charfaouimohammed/Atend-X/internal/models"
)

type mongoAdminStore struct {
	col *mongo.Collection
}

func (s *mongoAdminStore) Insert(ctx context.Context, a *models.Admin) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.Conflictf("email already registered")
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (s *mongoAdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	if err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFoundf("admin %s", email)
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &a, nil
}

func (s *mongoAdminStore) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	oid, err := parseOID(id)
	if err != nil {
		return nil, err
	}

	var a models.Admin
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFoundf("admin %s", id)
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &a, nil
}

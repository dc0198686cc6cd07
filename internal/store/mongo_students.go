package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/charfaouimohammed/Atend-X/internal/errs"
	"github.com/charfaouimohammed/Atend-X/internal/models"
)

type mongoStudentStore struct {
	col *mongo.Collection
}

func (s *mongoStudentStore) Insert(ctx context.Context, st *models.Student) error {
	if st.ID.IsZero() {
		st.ID = primitive.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, st); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.Conflictf("student with cne %s already exists", st.CNE)
		}
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

func (s *mongoStudentStore) FindByID(ctx context.Context, id string) (*models.Student, error) {
	oid, err := parseOID(id)
	if err != nil {
		return nil, err
	}

	var st models.Student
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&st); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFoundf("student %s", id)
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &st, nil
}

func (s *mongoStudentStore) List(ctx context.Context) ([]models.Student, error) {
	// _id order is insertion order, which keeps ranking tie-breaks stable
	cur, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer cur.Close(ctx)

	var students []models.Student
	if err := cur.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("decode students: %w", err)
	}
	return students, nil
}

func (s *mongoStudentStore) Count(ctx context.Context) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return n, nil
}

func (s *mongoStudentStore) Delete(ctx context.Context, id string) error {
	oid, err := parseOID(id)
	if err != nil {
		return err
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if res.DeletedCount == 0 {
		return errs.NotFoundf("student %s", id)
	}
	return nil
}

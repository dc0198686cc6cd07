package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/charfaouimohammed/Atend-X/internal/errs"
	"github.com/charfaouimohammed/Atend-X/internal/models"
)

type mongoSessionStore struct {
	col *mongo.Collection
}

// InsertActive relies on the partial unique index on admin_id (filtered to
// status == "active", see database.EnsureIndexes): two concurrent starts
// race on the index, never on a read-then-write check.
func (s *mongoSessionStore) InsertActive(ctx context.Context, adminID string, start time.Time) (*models.AttendanceSession, error) {
	session := &models.AttendanceSession{
		ID:              primitive.NewObjectID(),
		AdminID:         adminID,
		StartTime:       start,
		Status:          models.SessionActive,
		PresentStudents: []string{},
	}
	if _, err := s.col.InsertOne(ctx, session); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errs.Conflictf("you already have an active session")
		}
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

func (s *mongoSessionStore) FindForAdmin(ctx context.Context, id, adminID string) (*models.AttendanceSession, error) {
	oid, err := parseOID(id)
	if err != nil {
		return nil, err
	}

	var session models.AttendanceSession
	err = s.col.FindOne(ctx, bson.M{"_id": oid, "admin_id": adminID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFoundf("session not found or not authorized")
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &session, nil
}

func (s *mongoSessionStore) FindActive(ctx context.Context, adminID string) (*models.AttendanceSession, error) {
	var session models.AttendanceSession
	err := s.col.FindOne(ctx, bson.M{"admin_id": adminID, "status": models.SessionActive}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFoundf("no active session")
		}
		return nil, fmt.Errorf("find active session: %w", err)
	}
	return &session, nil
}

// AddPresent is a single $addToSet restricted to the active session, so
// concurrent marks for the same (session, student) pair cannot append a
// duplicate or double-count. ModifiedCount distinguishes added from already
// present.
func (s *mongoSessionStore) AddPresent(ctx context.Context, id, adminID, studentID string) (bool, error) {
	oid, err := parseOID(id)
	if err != nil {
		return false, err
	}

	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": oid, "admin_id": adminID, "status": models.SessionActive},
		bson.M{"$addToSet": bson.M{"present_students": studentID}},
	)
	if err != nil {
		return false, fmt.Errorf("mark attendance: %w", err)
	}
	if res.MatchedCount == 0 {
		// not active: completed session or wrong/unknown session
		if _, ferr := s.FindForAdmin(ctx, id, adminID); ferr != nil {
			return false, ferr
		}
		return false, errs.ErrSessionClosed
	}
	return res.ModifiedCount > 0, nil
}

// Complete transitions active -> completed in one conditional update; the
// status filter makes a double close lose the race instead of overwriting
// the frozen end time.
func (s *mongoSessionStore) Complete(ctx context.Context, id, adminID string, end time.Time) (*models.AttendanceSession, error) {
	oid, err := parseOID(id)
	if err != nil {
		return nil, err
	}

	var session models.AttendanceSession
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "admin_id": adminID, "status": models.SessionActive},
		bson.M{"$set": bson.M{"status": models.SessionCompleted, "end_time": end}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, ferr := s.FindForAdmin(ctx, id, adminID); ferr != nil {
				return nil, ferr
			}
			return nil, errs.ErrSessionClosed
		}
		return nil, fmt.Errorf("end session: %w", err)
	}
	return &session, nil
}

func (s *mongoSessionStore) CompletedBetween(ctx context.Context, adminID string, from, to time.Time) ([]models.AttendanceSession, error) {
	cur, err := s.col.Find(ctx, bson.M{
		"admin_id":   adminID,
		"status":     models.SessionCompleted,
		"start_time": bson.M{"$gte": from, "$lt": to},
	})
	if err != nil {
		return nil, fmt.Errorf("find completed sessions: %w", err)
	}
	defer cur.Close(ctx)

	var sessions []models.AttendanceSession
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return sessions, nil
}

func (s *mongoSessionStore) RecentCompleted(ctx context.Context, adminID string, limit int) ([]models.AttendanceSession, error) {
	opts := options.Find().
		SetSort(bson.M{"start_time": -1}).
		SetLimit(int64(limit))
	cur, err := s.col.Find(ctx, bson.M{"admin_id": adminID, "status": models.SessionCompleted}, opts)
	if err != nil {
		return nil, fmt.Errorf("find recent sessions: %w", err)
	}
	defer cur.Close(ctx)

	var sessions []models.AttendanceSession
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return sessions, nil
}

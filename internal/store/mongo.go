package store

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/charfaouimohammed/Atend-X/internal/errs"
)

// Collection names.
const (
	ColStudents = "students"
	ColAdmins   = "admins"
	ColSessions = "sessions"
	ColAudit    = "audit_logs"
)

// NewMongoStores wires the mongo-backed storage context.
func NewMongoStores(db *mongo.Database) *Stores {
	return &Stores{
		Students: &mongoStudentStore{col: db.Collection(ColStudents)},
		Admins:   &mongoAdminStore{col: db.Collection(ColAdmins)},
		Sessions: &mongoSessionStore{col: db.Collection(ColSessions)},
		Audit:    &mongoAuditStore{col: db.Collection(ColAudit)},
	}
}

// parseOID is the single hex -> ObjectID translation point.
func parseOID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errs.Validationf("invalid id %q", id)
	}
	return oid, nil
}

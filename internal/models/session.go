package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session status values. There are exactly two states: a session is created
// active and ends completed; no transition leaves completed.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// AttendanceSession is one attendance-taking period owned by one admin.
// PresentStudents holds student id hex strings (weak references: a student
// may be deleted afterwards, readers skip ids that no longer resolve).
// Membership only grows while active; a completed session is a frozen roster.
type AttendanceSession struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AdminID         string             `bson:"admin_id" json:"admin_id"`
	StartTime       time.Time          `bson:"start_time" json:"start_time"`
	EndTime         *time.Time         `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Status          string             `bson:"status" json:"status"`
	PresentStudents []string           `bson:"present_students" json:"present_students"`
}

// Active reports whether the session still accepts attendance marks.
func (s *AttendanceSession) Active() bool {
	return s.Status == SessionActive
}

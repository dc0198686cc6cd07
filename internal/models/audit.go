package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLog records one authenticated admin request.
type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AdminID   string             `bson:"admin_id" json:"admin_id"`
	Method    string             `bson:"method" json:"method"`
	Path      string             `bson:"path" json:"path"`
	Action    string             `bson:"action" json:"action"`
	IP        string             `bson:"ip" json:"ip"`
	UserAgent string             `bson:"user_agent" json:"user_agent"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

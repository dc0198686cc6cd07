package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin represents an administrator account that owns attendance sessions.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         string             `bson:"role" json:"role"`
	Disabled     bool               `bson:"disabled" json:"disabled"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is an enrolled person. The face embedding is extracted once at
// enrollment and never mutated afterwards; its length is fixed by the face
// service model (512 for Facenet512). Image holds the enrollment photo,
// AES-GCM encrypted and base64 encoded.
type Student struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	CNE          string             `bson:"cne" json:"cne"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	Image        string             `bson:"image" json:"-"`
	Embedding    []float64          `bson:"embedding" json:"-"`
	RegisteredAt time.Time          `bson:"registered_at" json:"registered_at"`
	CreatedBy    string             `bson:"created_by" json:"created_by"`
}

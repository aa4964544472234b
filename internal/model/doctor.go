package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Doctor is a roster entry, keyed by email. Managed by administrators only.
type Doctor struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name" json:"name"`
	Specialty string             `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Image     string             `bson:"img,omitempty" json:"img,omitempty"`
}

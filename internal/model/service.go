package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Service is a bookable treatment. Slots always holds the full catalog of
// time labels; availability is computed on read, never persisted.
type Service struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name  string             `bson:"name" json:"name"`
	Price float64            `bson:"price" json:"price"`
	Slots []string           `bson:"slots" json:"slots"`
}

type CreateServiceRequest struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Slots []string `json:"slots"`
}

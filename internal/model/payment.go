package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is an append-only record written when a booking is marked paid.
// No link-back validation is performed against the booking.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	BookingID     string             `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	Patient       string             `bson:"patient,omitempty" json:"patient,omitempty"`
	Amount        float64            `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency,omitempty" json:"currency,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

type RecordPaymentRequest struct {
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
}

type CreatePaymentIntentRequest struct {
	Price float64 `json:"price"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

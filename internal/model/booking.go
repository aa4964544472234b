package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Booking ties a patient to one slot of a treatment on a date. Date is an
// opaque string key, compared by equality only. At most one booking may exist
// per (treatment, date, patient); the bookings collection carries a unique
// compound index on that triple.
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Treatment     string             `bson:"treatment" json:"treatment"`
	Date          string             `bson:"date" json:"date"`
	Patient       string             `bson:"patient" json:"patient"`
	Slot          string             `bson:"slot" json:"slot"`
	PatientName   string             `bson:"patientName,omitempty" json:"patientName,omitempty"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Price         float64            `bson:"price,omitempty" json:"price,omitempty"`
	Paid          bool               `bson:"paid" json:"paid"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
}

// BookingResult reports the outcome of a create attempt. A duplicate triple is
// a normal negative outcome, not a fault: Success is false and Existing holds
// the record that was already there.
type BookingResult struct {
	Success  bool
	Booking  *Booking
	Existing *Booking
}

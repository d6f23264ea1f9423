package models

import "time"

// Issue is a problem reported against a booking by either party.
type Issue struct {
	ID          string    `bson:"id" json:"id"`
	BookingID   string    `bson:"booking_id" json:"bookingId"`
	ReportedBy  string    `bson:"reported_by" json:"reportedBy"`
	Category    string    `bson:"category,omitempty" json:"category,omitempty"`
	Description string    `bson:"description" json:"description"`
	Resolved    bool      `bson:"resolved" json:"resolved"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

package models

import "time"

// Rating is a resident's 1-5 star rating of a completed booking. At most
// one exists per booking, enforced by a unique index on booking_id.
type Rating struct {
	ID        string    `bson:"id" json:"id"`
	BookingID string    `bson:"booking_id" json:"bookingId"`
	ServiceID string    `bson:"service_id" json:"serviceId"`
	RatedBy   string    `bson:"rated_by" json:"ratedBy"`
	RatedTo   string    `bson:"rated_to" json:"ratedTo"`
	Stars     int       `bson:"stars" json:"stars"`
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// CreateRatingRequest is the resident payload for rating a booking.
type CreateRatingRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	Stars     int    `json:"stars" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

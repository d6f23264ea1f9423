package models

import "time"

// Category groups services in the catalog.
type Category struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	IconURL   string    `bson:"icon_url,omitempty" json:"iconUrl,omitempty"`
	IsActive  bool      `bson:"is_active" json:"isActive"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Service is a bookable catalog entry. Pricing is copied onto bookings at
// creation time; later price edits never touch existing bookings.
type Service struct {
	ID              string  `bson:"id" json:"id"`
	CategoryID      string  `bson:"category_id" json:"categoryId"`
	Name            string  `bson:"name" json:"name"`
	Description     string  `bson:"description,omitempty" json:"description,omitempty"`
	BasePrice       float64 `bson:"base_price" json:"basePrice"`
	DurationMinutes int     `bson:"duration_minutes" json:"durationMinutes"`
	ImageURL        string  `bson:"image_url,omitempty" json:"imageUrl,omitempty"`

	// Rating aggregates, maintained atomically on rating creation and
	// recomputed nightly from source rows.
	AverageRating float64 `bson:"average_rating" json:"averageRating"`
	TotalRatings  int64   `bson:"total_ratings" json:"totalRatings"`

	// Incremented with $inc on every booking creation.
	BookingCount int64 `bson:"booking_count" json:"bookingCount"`

	IsActive  bool      `bson:"is_active" json:"isActive"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// CreateServiceRequest is the admin payload for adding a catalog entry.
type CreateServiceRequest struct {
	CategoryID      string  `json:"categoryId" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	BasePrice       float64 `json:"basePrice" binding:"required,gt=0"`
	DurationMinutes int     `json:"durationMinutes" binding:"required,gt=0"`
	ImageURL        string  `json:"imageUrl"`
}

// UpdateServiceRequest carries partial catalog edits.
type UpdateServiceRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	BasePrice       *float64 `json:"basePrice" binding:"omitempty,gt=0"`
	DurationMinutes *int     `json:"durationMinutes" binding:"omitempty,gt=0"`
	ImageURL        *string  `json:"imageUrl"`
	IsActive        *bool    `json:"isActive"`
}

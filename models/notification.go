package models

import "time"

// Notification types emitted by lifecycle side effects.
const (
	NotificationBookingCreated     = "booking_created"
	NotificationBookingAssigned    = "booking_assigned"
	NotificationBookingInProgress  = "booking_in_progress"
	NotificationBookingCompleted   = "booking_completed"
	NotificationBookingCancelled   = "booking_cancelled"
	NotificationBookingRescheduled = "booking_rescheduled"
	NotificationBookingReminder    = "booking_reminder"
	NotificationBroadcast          = "broadcast"
	NotificationSystem             = "system"
)

// Notification is a per-user in-app message. Only isRead/readAt are ever
// mutated after creation.
type Notification struct {
	ID        string            `bson:"id" json:"id"`
	UserID    string            `bson:"user_id" json:"userId"`
	Type      string            `bson:"type" json:"type"`
	Title     string            `bson:"title" json:"title"`
	Body      string            `bson:"body" json:"body"`
	Data      map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	IsRead    bool              `bson:"is_read" json:"isRead"`
	ReadAt    *time.Time        `bson:"read_at,omitempty" json:"readAt,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"createdAt"`
}

// Broadcast records a fan-out to an audience and its aggregate counts.
type Broadcast struct {
	ID             string    `bson:"id" json:"id"`
	Title          string    `bson:"title" json:"title"`
	Message        string    `bson:"message" json:"message"`
	TargetAudience string    `bson:"target_audience" json:"targetAudience"`
	SentBy         string    `bson:"sent_by" json:"sentBy"`
	RecipientCount int64     `bson:"recipient_count" json:"recipientCount"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}

// BroadcastRequest is the admin payload for a broadcast. Audience is a role
// name, "all", or "explicit" with user IDs listed.
type BroadcastRequest struct {
	Title          string   `json:"title" binding:"required"`
	Message        string   `json:"message" binding:"required"`
	TargetAudience string   `json:"targetAudience" binding:"required,oneof=all resident sevak explicit"`
	UserIDs        []string `json:"userIds" binding:"required_if=TargetAudience explicit"`
}

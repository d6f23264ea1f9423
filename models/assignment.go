package models

import "time"

// Assignment types.
const (
	AssignmentTypeAuto         = "auto"
	AssignmentTypeManual       = "manual"
	AssignmentTypeReassignment = "reassignment"
)

// AssignmentHistory is an immutable log row written on every assignment or
// reassignment. Rows are created and never mutated or deleted.
type AssignmentHistory struct {
	ID              string    `bson:"id" json:"id"`
	BookingID       string    `bson:"booking_id" json:"bookingId"`
	SevakID         string    `bson:"sevak_id" json:"sevakId"`
	AssignedBy      string    `bson:"assigned_by" json:"assignedBy"`
	AssignmentType  string    `bson:"assignment_type" json:"assignmentType"`
	PreviousSevakID *string   `bson:"previous_sevak_id,omitempty" json:"previousSevakId,omitempty"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
}

// AssignRequest is the admin payload for manual assignment.
type AssignRequest struct {
	SevakID string `json:"sevakId" binding:"required"`
	Notes   string `json:"notes"`
}

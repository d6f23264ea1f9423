package models

import "time"

// Blacklist types.
const (
	BlacklistTypeTemporary = "temporary"
	BlacklistTypePermanent = "permanent"
)

// BlacklistRecord is the audit trail of a blacklist action. The
// authoritative gate checked at assignment time is User.IsBlacklisted; the
// record is historical data.
type BlacklistRecord struct {
	ID            string     `bson:"id" json:"id"`
	SevakID       string     `bson:"sevak_id" json:"sevakId"`
	Type          string     `bson:"type" json:"type"`
	Reason        string     `bson:"reason" json:"reason"`
	BlacklistedBy string     `bson:"blacklisted_by" json:"blacklistedBy"`
	EndDate       *time.Time `bson:"end_date,omitempty" json:"endDate,omitempty"`
	IsActive      bool       `bson:"is_active" json:"isActive"`
	ReinstatedBy  string     `bson:"reinstated_by,omitempty" json:"reinstatedBy,omitempty"`
	ReinstatedAt  *time.Time `bson:"reinstated_at,omitempty" json:"reinstatedAt,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"createdAt"`
}

// BlacklistRequest is the admin payload for blacklisting a sevak.
type BlacklistRequest struct {
	Type         string `json:"type" binding:"required,oneof=temporary permanent"`
	Reason       string `json:"reason" binding:"required"`
	DurationDays int    `json:"durationDays" binding:"required_if=Type temporary,omitempty,gt=0"`
}

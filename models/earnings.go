package models

import "time"

// Earnings statuses. Rows are created pending and only a payout process
// moves them onward.
const (
	EarningStatusPending   = "pending"
	EarningStatusProcessed = "processed"
	EarningStatusPaid      = "paid"
)

// Earning is the commission-split ledger entry derived from a completed
// booking. Exactly one row exists per completed booking.
type Earning struct {
	ID         string    `bson:"id" json:"id"`
	SevakID    string    `bson:"sevak_id" json:"sevakId"`
	BookingID  string    `bson:"booking_id" json:"bookingId"`
	Amount     float64   `bson:"amount" json:"amount"`
	Commission float64   `bson:"commission" json:"commission"`
	NetAmount  float64   `bson:"net_amount" json:"netAmount"`
	Status     string    `bson:"status" json:"status"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}

// EarningsSummary aggregates a sevak's ledger by status.
type EarningsSummary struct {
	SevakID         string  `bson:"_id" json:"sevakId"`
	TotalAmount     float64 `bson:"total_amount" json:"totalAmount"`
	TotalNet        float64 `bson:"total_net" json:"totalNet"`
	TotalCommission float64 `bson:"total_commission" json:"totalCommission"`
	PendingNet      float64 `bson:"pending_net" json:"pendingNet"`
	PaidNet         float64 `bson:"paid_net" json:"paidNet"`
	JobCount        int64   `bson:"job_count" json:"jobCount"`
}

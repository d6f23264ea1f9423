package models

import "time"

// Payment order statuses.
const (
	PaymentOrderCreated  = "created"
	PaymentOrderPaid     = "paid"
	PaymentOrderRefunded = "refunded"
	PaymentOrderFailed   = "failed"
)

// PaymentOrder tracks one gateway order for a booking.
type PaymentOrder struct {
	ID              string    `bson:"id" json:"id"`
	BookingID       string    `bson:"booking_id" json:"bookingId"`
	ResidentID      string    `bson:"resident_id" json:"residentId"`
	GatewayIntentID string    `bson:"gateway_intent_id" json:"gatewayIntentId"`
	Amount          float64   `bson:"amount" json:"amount"`
	Currency        string    `bson:"currency" json:"currency"`
	Status          string    `bson:"status" json:"status"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updatedAt"`
}

// Invoice is generated once a payment order is verified.
type Invoice struct {
	InvoiceID     string    `bson:"invoice_id" json:"invoiceId"`
	BookingID     string    `bson:"booking_id" json:"bookingId"`
	OrderID       string    `bson:"order_id" json:"orderId"`
	Amount        float64   `bson:"amount" json:"amount"`
	Currency      string    `bson:"currency" json:"currency"`
	PaymentMethod string    `bson:"payment_method" json:"paymentMethod"`
	Status        string    `bson:"status" json:"status"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}

// CreateOrderRequest starts a payment for a booking.
type CreateOrderRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
}

// VerifyPaymentRequest is the gateway verification callback payload.
type VerifyPaymentRequest struct {
	OrderID         string `json:"orderId" binding:"required"`
	GatewayIntentID string `json:"gatewayIntentId" binding:"required"`
}

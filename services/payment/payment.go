package payment

import (
	"fmt"
	"time"

	"gharseva/models"
	"gharseva/utils"

	bookingRepo "gharseva/database/repository/booking"
	paymentRepo "gharseva/database/repository/payment"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

const currency = "inr"

// PaymentService runs the gateway flow: order, verification, invoice and
// refund. Amounts are rupees at the API surface and paise on the wire.
type PaymentService interface {
	// CreateOrder opens a payment intent for an unpaid booking.
	CreateOrder(residentID string, req models.CreateOrderRequest) (*models.PaymentOrder, string, error)
	// VerifyPayment confirms the intent succeeded, marks the booking paid
	// and issues the invoice.
	VerifyPayment(residentID string, req models.VerifyPaymentRequest) (*models.Invoice, error)
	// RefundCancelled pushes the refund for a cancelled, paid booking back
	// through the gateway and flips the booking to refunded.
	RefundCancelled(bookingID string) (*models.Booking, error)
	InvoiceForBooking(bookingID string) (*models.Invoice, error)
	ListOrders(residentID string, page, limit int) ([]models.PaymentOrder, int64, error)
}

// DefaultPaymentService is the production implementation of PaymentService.
type DefaultPaymentService struct {
	Repo        paymentRepo.PaymentRepository
	BookingRepo bookingRepo.BookingRepository
}

// NewPaymentService wires a PaymentService over its repositories.
func NewPaymentService(repo paymentRepo.PaymentRepository, bookings bookingRepo.BookingRepository) PaymentService {
	return &DefaultPaymentService{Repo: repo, BookingRepo: bookings}
}

// CreateOrder opens a gateway payment intent for the booking total and
// records the order. Returns the order and the intent's client secret.
func (s *DefaultPaymentService) CreateOrder(residentID string, req models.CreateOrderRequest) (*models.PaymentOrder, string, error) {
	booking, err := s.BookingRepo.GetByID(req.BookingID)
	if err != nil {
		return nil, "", err
	}
	if booking == nil {
		return nil, "", utils.NewNotFound("booking")
	}
	if booking.ResidentID != residentID {
		return nil, "", utils.NewForbidden("booking belongs to another resident")
	}
	if booking.PaymentStatus != models.PaymentStatusUnpaid {
		return nil, "", utils.NewValidation("booking is already " + booking.PaymentStatus)
	}
	if models.IsTerminalStatus(booking.Status) {
		return nil, "", utils.NewValidation("cannot pay for a " + booking.Status + " booking")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toPaise(booking.TotalAmount)),
		Currency: stripe.String(currency),
		Metadata: map[string]string{"bookingId": booking.ID},
	}
	intent, err := paymentintent.New(params)
	if err != nil {
		utils.GetLogger().Error("CreateOrder: gateway intent failed",
			zap.String("bookingId", booking.ID), zap.Error(err))
		return nil, "", fmt.Errorf("payment gateway error: %w", err)
	}

	now := time.Now()
	order := &models.PaymentOrder{
		ID:              uuid.New().String(),
		BookingID:       booking.ID,
		ResidentID:      residentID,
		GatewayIntentID: intent.ID,
		Amount:          booking.TotalAmount,
		Currency:        currency,
		Status:          models.PaymentOrderCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.CreateOrder(order); err != nil {
		return nil, "", err
	}
	return order, intent.ClientSecret, nil
}

// VerifyPayment re-fetches the intent from the gateway, and on success
// marks the order and booking paid and issues the invoice. Verification is
// idempotent: a replay against a paid order returns the existing invoice.
func (s *DefaultPaymentService) VerifyPayment(residentID string, req models.VerifyPaymentRequest) (*models.Invoice, error) {
	order, err := s.Repo.GetOrder(req.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, utils.NewNotFound("payment order")
	}
	if order.ResidentID != residentID {
		return nil, utils.NewForbidden("order belongs to another resident")
	}
	if order.GatewayIntentID != req.GatewayIntentID {
		return nil, utils.NewValidation("intent does not match order")
	}
	if order.Status == models.PaymentOrderPaid {
		return s.InvoiceForBooking(order.BookingID)
	}

	intent, err := paymentintent.Get(order.GatewayIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("payment gateway error: %w", err)
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		if err := s.Repo.SetOrderStatus(order.ID, models.PaymentOrderFailed); err != nil {
			utils.GetLogger().Error("VerifyPayment: failed to mark order failed", zap.Error(err))
		}
		return nil, utils.NewValidation("payment has not succeeded")
	}

	if err := s.Repo.SetOrderStatus(order.ID, models.PaymentOrderPaid); err != nil {
		return nil, err
	}
	if err := s.BookingRepo.SetPaymentStatus(order.BookingID, models.PaymentStatusPaid); err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		InvoiceID:     uuid.New().String(),
		BookingID:     order.BookingID,
		OrderID:       order.ID,
		Amount:        order.Amount,
		Currency:      order.Currency,
		PaymentMethod: "card",
		Status:        "paid",
		CreatedAt:     time.Now(),
	}
	if err := s.Repo.CreateInvoice(invoice); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Payment verified",
		zap.String("orderId", order.ID), zap.String("bookingId", order.BookingID))
	return invoice, nil
}

// RefundCancelled refunds a cancelled, paid booking in full and flips it
// to refunded.
func (s *DefaultPaymentService) RefundCancelled(bookingID string) (*models.Booking, error) {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFound("booking")
	}
	if booking.Status != models.BookingStatusCancelled {
		return nil, utils.NewValidation("only cancelled bookings can be refunded")
	}
	if booking.PaymentStatus != models.PaymentStatusPaid {
		return nil, utils.NewValidation("booking was never paid")
	}
	if booking.RefundAmount <= 0 {
		return nil, utils.NewValidation("booking carries no refund")
	}

	order, err := s.Repo.GetPaidOrderByBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, utils.NewNotFound("payment order")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(order.GatewayIntentID),
		Amount:        stripe.Int64(toPaise(booking.RefundAmount)),
	}
	if _, err := refund.New(params); err != nil {
		utils.GetLogger().Error("RefundCancelled: gateway refund failed",
			zap.String("bookingId", bookingID), zap.Error(err))
		return nil, fmt.Errorf("payment gateway error: %w", err)
	}

	if err := s.Repo.SetOrderStatus(order.ID, models.PaymentOrderRefunded); err != nil {
		return nil, err
	}
	entry := models.TimelineEntry{
		Status:    models.BookingStatusRefunded,
		Timestamp: time.Now(),
		Notes:     fmt.Sprintf("refunded %.2f", booking.RefundAmount),
	}
	if err := s.BookingRepo.MarkRefunded(bookingID, entry); err != nil {
		if err == bookingRepo.ErrNoMatch {
			return nil, utils.NewConflict("booking changed state, please retry")
		}
		return nil, err
	}
	return s.BookingRepo.GetByID(bookingID)
}

// InvoiceForBooking returns the invoice issued for a booking.
func (s *DefaultPaymentService) InvoiceForBooking(bookingID string) (*models.Invoice, error) {
	invoice, err := s.Repo.GetInvoiceByBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, utils.NewNotFound("invoice")
	}
	return invoice, nil
}

// ListOrders pages a resident's payment orders.
func (s *DefaultPaymentService) ListOrders(residentID string, page, limit int) ([]models.PaymentOrder, int64, error) {
	return s.Repo.ListOrdersByResident(residentID, page, limit)
}

func toPaise(rupees float64) int64 {
	return int64(rupees*100 + 0.5)
}

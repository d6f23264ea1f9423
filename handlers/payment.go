package handlers

import (
	"io"

	"gharseva/config"
	"gharseva/middleware"
	"gharseva/models"
	"gharseva/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// CreateOrderHandler opens a payment intent for an unpaid booking.
func (hb *HandlerBundle) CreateOrderHandler(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	order, clientSecret, err := hb.PaymentSvc.CreateOrder(middleware.CallerID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, "Payment order created", gin.H{"order": order, "clientSecret": clientSecret})
}

// VerifyPaymentHandler confirms a payment and issues the invoice.
func (hb *HandlerBundle) VerifyPaymentHandler(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	invoice, err := hb.PaymentSvc.VerifyPayment(middleware.CallerID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Payment verified", invoice)
}

// InvoiceHandler returns the invoice for a booking the caller can see.
func (hb *HandlerBundle) InvoiceHandler(c *gin.Context) {
	bookingID := c.Param("id")
	if _, err := hb.BookingSvc.Get(bookingID, middleware.CallerID(c), middleware.CallerRole(c)); err != nil {
		utils.RespondError(c, err)
		return
	}

	invoice, err := hb.PaymentSvc.InvoiceForBooking(bookingID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Invoice", invoice)
}

// MyOrdersHandler pages the resident's payment orders.
func (hb *HandlerBundle) MyOrdersHandler(c *gin.Context) {
	page, limit := pageParams(c)
	orders, total, err := hb.PaymentSvc.ListOrders(middleware.CallerID(c), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondPaginated(c, "Payment orders", orders, utils.NewPagination(page, limit, total))
}

// StripeWebhookHandler verifies the gateway signature and acknowledges the
// event. Payment state is driven by the verify endpoint; the webhook is an
// audit channel.
func (hb *HandlerBundle) StripeWebhookHandler(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondError(c, utils.NewValidation("unreadable payload"))
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		utils.RespondError(c, utils.NewUnauthorized("invalid webhook signature"))
		return
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded, stripe.EventTypePaymentIntentPaymentFailed:
		utils.GetLogger().Info("gateway event", zap.String("type", string(event.Type)), zap.String("id", event.ID))
	default:
	}
	utils.RespondOK(c, "Event received", nil)
}

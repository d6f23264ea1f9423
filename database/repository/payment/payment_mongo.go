package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"gharseva/database"
	"gharseva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PaymentRepository persists gateway payment orders and invoices.
type PaymentRepository interface {
	CreateOrder(order *models.PaymentOrder) error
	GetOrder(orderID string) (*models.PaymentOrder, error)
	GetOrderByIntent(intentID string) (*models.PaymentOrder, error)
	GetPaidOrderByBooking(bookingID string) (*models.PaymentOrder, error)
	SetOrderStatus(orderID, status string) error
	CreateInvoice(invoice *models.Invoice) error
	GetInvoiceByBooking(bookingID string) (*models.Invoice, error)
	ListOrdersByResident(residentID string, page, limit int) ([]models.PaymentOrder, int64, error)
}

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	orderColl   *mongo.Collection
	invoiceColl *mongo.Collection
}

// NewMongoPaymentRepo creates a new PaymentRepository backed by MongoDB.
func NewMongoPaymentRepo() PaymentRepository {
	repo := &MongoPaymentRepo{
		orderColl:   database.Collection("payment_orders"),
		invoiceColl: database.Collection("invoices"),
	}
	repo.ensureIndexes()
	return repo
}

func (r *MongoPaymentRepo) ensureIndexes() {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	orderIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "gateway_intent_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "resident_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "booking_id", Value: 1}},
		},
	}
	if _, err := r.orderColl.Indexes().CreateMany(ctx, orderIndexes); err != nil {
		fmt.Printf("Warning: failed to create payment order indexes: %v\n", err)
	}

	invoiceIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "invoice_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "booking_id", Value: 1}},
		},
	}
	if _, err := r.invoiceColl.Indexes().CreateMany(ctx, invoiceIndexes); err != nil {
		fmt.Printf("Warning: failed to create invoice indexes: %v\n", err)
	}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// CreateOrder inserts a payment order.
func (r *MongoPaymentRepo) CreateOrder(order *models.PaymentOrder) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.orderColl.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create payment order: %w", err)
	}
	return nil
}

// GetOrder retrieves a payment order by ID. Returns nil when absent.
func (r *MongoPaymentRepo) GetOrder(orderID string) (*models.PaymentOrder, error) {
	return r.findOrder(bson.M{"id": orderID})
}

// GetOrderByIntent retrieves an order by its gateway intent ID. Returns nil
// when absent. Used by the webhook path.
func (r *MongoPaymentRepo) GetOrderByIntent(intentID string) (*models.PaymentOrder, error) {
	return r.findOrder(bson.M{"gateway_intent_id": intentID})
}

// GetPaidOrderByBooking retrieves the paid order backing a booking, used
// to locate the intent when issuing a refund. Returns nil when absent.
func (r *MongoPaymentRepo) GetPaidOrderByBooking(bookingID string) (*models.PaymentOrder, error) {
	return r.findOrder(bson.M{"booking_id": bookingID, "status": models.PaymentOrderPaid})
}

func (r *MongoPaymentRepo) findOrder(filter bson.M) (*models.PaymentOrder, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var order models.PaymentOrder
	if err := r.orderColl.FindOne(ctx, filter).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch payment order: %w", err)
	}
	return &order, nil
}

// SetOrderStatus moves an order to a new status.
func (r *MongoPaymentRepo) SetOrderStatus(orderID, status string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.orderColl.UpdateOne(ctx,
		bson.M{"id": orderID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update payment order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CreateInvoice inserts an invoice.
func (r *MongoPaymentRepo) CreateInvoice(invoice *models.Invoice) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.invoiceColl.InsertOne(ctx, invoice); err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// GetInvoiceByBooking retrieves the invoice for a booking. Returns nil when
// absent.
func (r *MongoPaymentRepo) GetInvoiceByBooking(bookingID string) (*models.Invoice, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var invoice models.Invoice
	if err := r.invoiceColl.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&invoice); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch invoice for booking %s: %w", bookingID, err)
	}
	return &invoice, nil
}

// ListOrdersByResident lists a resident's payment orders, newest first.
func (r *MongoPaymentRepo) ListOrdersByResident(residentID string, page, limit int) ([]models.PaymentOrder, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"resident_id": residentID}
	total, err := r.orderColl.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count payment orders: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.orderColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve payment orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.PaymentOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode payment orders: %w", err)
	}
	return orders, total, nil
}

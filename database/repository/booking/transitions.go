package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"gharseva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Every transition here is a single conditional UpdateOne filtered on the
// expected current state. A cancel racing a check-in, or two sevaks racing
// for the same job, resolves inside the database: one write matches, the
// other returns ErrNoMatch.

var terminalStatuses = []string{
	models.BookingStatusCompleted,
	models.BookingStatusCancelled,
	models.BookingStatusRefunded,
}

func nonTerminalFilter(id string) bson.M {
	return bson.M{
		"id":     id,
		"status": bson.M{"$nin": terminalStatuses},
	}
}

// Reschedule updates date/time iff the booking is non-terminal.
func (r *MongoBookingRepo) Reschedule(id, newDate, newTime string, entry models.TimelineEntry) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"scheduled_date": newDate,
			"scheduled_time": newTime,
			"updated_at":     time.Now(),
		},
		"$push": bson.M{"timeline": entry},
	}
	result, err := r.bookingColl.UpdateOne(ctx, nonTerminalFilter(id), update)
	if err != nil {
		return fmt.Errorf("error rescheduling booking %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

// Cancel moves a non-terminal booking to cancelled with its cancellation
// record in the same write.
func (r *MongoBookingRepo) Cancel(id, cancelledBy, reason string, refundAmount float64, entry models.TimelineEntry) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"status":              models.BookingStatusCancelled,
			"cancelled_by":        cancelledBy,
			"cancellation_reason": reason,
			"cancelled_at":        now,
			"refund_amount":       refundAmount,
			"updated_at":          now,
		},
		"$push": bson.M{"timeline": entry},
	}
	result, err := r.bookingColl.UpdateOne(ctx, nonTerminalFilter(id), update)
	if err != nil {
		return fmt.Errorf("error cancelling booking %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

// MarkRefunded flips a cancelled, paid booking to refunded.
func (r *MongoBookingRepo) MarkRefunded(id string, entry models.TimelineEntry) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":             id,
		"status":         models.BookingStatusCancelled,
		"payment_status": models.PaymentStatusPaid,
	}
	update := bson.M{
		"$set": bson.M{
			"status":         models.BookingStatusRefunded,
			"payment_status": models.PaymentStatusRefunded,
			"updated_at":     time.Now(),
		},
		"$push": bson.M{"timeline": entry},
	}
	result, err := r.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error marking booking %s refunded: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

// SetPaymentStatus updates the payment flag on a booking.
func (r *MongoBookingRepo) SetPaymentStatus(id, paymentStatus string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.bookingColl.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{"payment_status": paymentStatus, "updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("error setting payment status on booking %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

// AssignIfPending binds a sevak iff the booking is still pending,
// unassigned and not past-dated, in one compare-and-swap write. Returns
// the post-update booking, or ErrNoMatch when another sevak won the race
// or the slot date has lapsed.
func (r *MongoBookingRepo) AssignIfPending(id, sevakID string, entry models.TimelineEntry) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":             id,
		"status":         models.BookingStatusPending,
		"sevak_id":       bson.M{"$in": bson.A{nil, ""}},
		"scheduled_date": bson.M{"$gte": time.Now().Format("2006-01-02")},
	}
	update := bson.M{
		"$set": bson.M{
			"sevak_id":   sevakID,
			"status":     models.BookingStatusAssigned,
			"updated_at": time.Now(),
		},
		"$push": bson.M{"timeline": entry},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.bookingColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoMatch
		}
		return nil, fmt.Errorf("error accepting booking %s: %w", id, err)
	}
	return &booking, nil
}

// Assign binds (or rebinds) a sevak on any non-terminal booking.
func (r *MongoBookingRepo) Assign(id, sevakID string, entry models.TimelineEntry) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"sevak_id":   sevakID,
			"status":     models.BookingStatusAssigned,
			"updated_at": time.Now(),
		},
		"$push": bson.M{"timeline": entry},
	}
	result, err := r.bookingColl.UpdateOne(ctx, nonTerminalFilter(id), update)
	if err != nil {
		return fmt.Errorf("error assigning booking %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

// CheckIn consumes the OTP: assigned → in-progress, OTP cleared, check-in
// time recorded, all in one update. The OTP itself is verified by the
// service before this call; the status filter still guards the transition.
func (r *MongoBookingRepo) CheckIn(id, sevakID string, at time.Time, loc *models.Location, entry models.TimelineEntry) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":       id,
		"sevak_id": sevakID,
		"status":   models.BookingStatusAssigned,
	}
	set := bson.M{
		"status":                models.BookingStatusInProgress,
		"check_in_otp":          "",
		"check_in_otp_attempts": 0,
		"check_in_time":         at,
		"updated_at":            at,
	}
	if loc != nil {
		set["check_in_location"] = loc
	}
	result, err := r.bookingColl.UpdateOne(ctx, filter, bson.M{
		"$set":  set,
		"$push": bson.M{"timeline": entry},
	})
	if err != nil {
		return fmt.Errorf("error checking in booking %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

// IncrementOTPAttempts bumps the failed-attempt counter.
func (r *MongoBookingRepo) IncrementOTPAttempts(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.bookingColl.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$inc": bson.M{"check_in_otp_attempts": 1},
	})
	if err != nil {
		return fmt.Errorf("error counting OTP attempt on booking %s: %w", id, err)
	}
	return nil
}

// CheckOut stamps the check-out time on an in-progress booking. Status is
// deliberately unchanged; completion is a separate explicit step.
func (r *MongoBookingRepo) CheckOut(id, sevakID string, at time.Time, loc *models.Location, entry models.TimelineEntry) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":       id,
		"sevak_id": sevakID,
		"status":   models.BookingStatusInProgress,
	}
	set := bson.M{
		"check_out_time": at,
		"updated_at":     at,
	}
	if loc != nil {
		set["check_out_location"] = loc
	}
	result, err := r.bookingColl.UpdateOne(ctx, filter, bson.M{
		"$set":  set,
		"$push": bson.M{"timeline": entry},
	})
	if err != nil {
		return fmt.Errorf("error checking out booking %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

// Complete transitions in-progress → completed and inserts the earnings
// row inside one Mongo transaction, so a completed job can never exist
// without its ledger entry.
func (r *MongoBookingRepo) Complete(
	ctx context.Context,
	id, sevakID, notes string,
	beforeImages, afterImages []string,
	entry models.TimelineEntry,
	earning *models.Earning,
) error {
	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		now := time.Now()
		filter := bson.M{
			"id":       id,
			"sevak_id": sevakID,
			"status":   models.BookingStatusInProgress,
		}
		set := bson.M{
			"status":           models.BookingStatusCompleted,
			"completion_notes": notes,
			"updated_at":       now,
		}
		if len(beforeImages) > 0 {
			set["before_images"] = beforeImages
		}
		if len(afterImages) > 0 {
			set["after_images"] = afterImages
		}
		result, err := r.bookingColl.UpdateOne(sc, filter, bson.M{
			"$set":  set,
			"$push": bson.M{"timeline": entry},
		})
		if err != nil {
			return fmt.Errorf("complete booking update failed: %w", err)
		}
		if result.MatchedCount == 0 {
			return ErrNoMatch
		}

		earning.CreatedAt = now
		earning.UpdatedAt = now
		if _, err := r.earningColl.InsertOne(sc, earning); err != nil {
			return fmt.Errorf("insert earning failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrNoMatch {
			return ErrNoMatch
		}
		return fmt.Errorf("completion transaction failed: %w", err)
	}
	return nil
}

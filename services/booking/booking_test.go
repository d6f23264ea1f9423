package booking

import (
	"regexp"
	"testing"
	"time"

	"gharseva/models"
	"gharseva/utils"

	bookingRepo "gharseva/database/repository/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testResidentID = "resident-1"
	testSevakID    = "sevak-1"
	testServiceID  = "service-1"
)

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func newTestService() (*DefaultBookingService, *memBookingRepo, *memCatalogRepo, *memUserRepo, *stubNotifier) {
	repo := newMemBookingRepo()
	catalog := newMemCatalogRepo()
	users := newMemUserRepo()
	notifier := &stubNotifier{}

	catalog.services[testServiceID] = &models.Service{
		ID:              testServiceID,
		Name:            "Deep Cleaning",
		BasePrice:       500,
		DurationMinutes: 120,
		IsActive:        true,
	}

	svc := NewBookingService(repo, catalog, users, notifier).(*DefaultBookingService)
	return svc, repo, catalog, users, notifier
}

func createTestBooking(t *testing.T, svc *DefaultBookingService, slot string) *models.Booking {
	t.Helper()
	b, err := svc.Create(testResidentID, models.CreateBookingRequest{
		ServiceID:     testServiceID,
		ScheduledDate: futureDate(),
		ScheduledTime: slot,
		Address:       "12 MG Road",
	})
	require.NoError(t, err)
	return b
}

func TestCreateBooking(t *testing.T) {
	svc, repo, catalog, _, notifier := newTestService()

	b := createTestBooking(t, svc, "10:00")

	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, b.PaymentStatus)
	assert.Equal(t, 500.0, b.TotalAmount)
	assert.Len(t, b.CheckInOTP, 6)
	assert.Regexp(t, regexp.MustCompile(`^GS-\d{8}-\d{4}$`), b.BookingNumber)
	require.Len(t, b.Timeline, 1)
	assert.Equal(t, models.BookingStatusPending, b.Timeline[0].Status)

	assert.Equal(t, 1, catalog.increments[testServiceID])
	assert.Contains(t, notifier.sent, testResidentID)

	stored, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, b.BookingNumber, stored.BookingNumber)
}

func TestCreateBookingRetriesNumberCollision(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	repo.failCreateWith = bookingRepo.ErrDuplicateBookingNumber
	repo.failCreateN = 2

	b := createTestBooking(t, svc, "10:00")
	assert.Regexp(t, regexp.MustCompile(`^GS-\d{8}-\d{4}$`), b.BookingNumber)
	assert.Equal(t, 0, repo.failCreateN)
}

func TestCreateBookingGivesUpAfterMaxCollisions(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	repo.failCreateWith = bookingRepo.ErrDuplicateBookingNumber
	repo.failCreateN = maxBookingNumberAttempts

	_, err := svc.Create(testResidentID, models.CreateBookingRequest{
		ServiceID:     testServiceID,
		ScheduledDate: futureDate(),
		ScheduledTime: "10:00",
		Address:       "12 MG Road",
	})
	assert.ErrorIs(t, err, bookingRepo.ErrDuplicateBookingNumber)
}

func TestCreateBookingRejectsInactiveService(t *testing.T) {
	svc, _, catalog, _, _ := newTestService()
	catalog.services[testServiceID].IsActive = false

	_, err := svc.Create(testResidentID, models.CreateBookingRequest{
		ServiceID:     testServiceID,
		ScheduledDate: futureDate(),
		ScheduledTime: "10:00",
		Address:       "12 MG Road",
	})
	var notFound *utils.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCreateBookingRejectsPastSlot(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.Create(testResidentID, models.CreateBookingRequest{
		ServiceID:     testServiceID,
		ScheduledDate: "2020-01-01",
		ScheduledTime: "10:00",
		Address:       "12 MG Road",
	})
	var validation *utils.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCreateBookingRejectsTakenSlot(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	createTestBooking(t, svc, "10:00")

	_, err := svc.Create("resident-2", models.CreateBookingRequest{
		ServiceID:     testServiceID,
		ScheduledDate: futureDate(),
		ScheduledTime: "10:00",
		Address:       "5 Residency Road",
	})
	var conflict *utils.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestAvailableSlotsExcludesBooked(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	createTestBooking(t, svc, "10:00")

	free, err := svc.AvailableSlots(testServiceID, futureDate())
	require.NoError(t, err)
	assert.NotContains(t, free, "10:00")
	assert.Contains(t, free, "09:00")
	assert.Contains(t, free, "18:00")
	assert.Len(t, free, lastSlotHour-firstSlotHour)
}

func TestAvailableSlotsFreedByCancellation(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	b := createTestBooking(t, svc, "10:00")

	_, err := svc.Cancel(b.ID, testResidentID, models.RoleResident, "changed my mind")
	require.NoError(t, err)

	free, err := svc.AvailableSlots(testServiceID, futureDate())
	require.NoError(t, err)
	assert.Contains(t, free, "10:00")
}

func TestGetVisibility(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	b := createTestBooking(t, svc, "10:00")

	sevak := testSevakID
	repo.bookings[b.ID].SevakID = &sevak

	cases := []struct {
		name       string
		callerID   string
		callerRole string
		wantErr    bool
	}{
		{"owner resident", testResidentID, models.RoleResident, false},
		{"other resident", "resident-2", models.RoleResident, true},
		{"assigned sevak", testSevakID, models.RoleSevak, false},
		{"other sevak", "sevak-2", models.RoleSevak, true},
		{"admin", "admin-1", models.RoleAdmin, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Get(b.ID, tc.callerID, tc.callerRole)
			if tc.wantErr {
				var forbidden *utils.ForbiddenError
				assert.ErrorAs(t, err, &forbidden)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRevealCheckInOTP(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	b := createTestBooking(t, svc, "10:00")

	otp, err := svc.RevealCheckInOTP(b.ID, testResidentID)
	require.NoError(t, err)
	assert.Len(t, otp, 6)

	_, err = svc.RevealCheckInOTP(b.ID, "resident-2")
	var forbidden *utils.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestCancelRefundRules(t *testing.T) {
	t.Run("unpaid booking gets no refund", func(t *testing.T) {
		svc, _, _, _, _ := newTestService()
		b := createTestBooking(t, svc, "10:00")

		cancelled, err := svc.Cancel(b.ID, testResidentID, models.RoleResident, "plans changed")
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
		assert.Equal(t, 0.0, cancelled.RefundAmount)
	})

	t.Run("paid booking is refunded in full", func(t *testing.T) {
		svc, repo, _, _, _ := newTestService()
		b := createTestBooking(t, svc, "10:00")
		require.NoError(t, repo.SetPaymentStatus(b.ID, models.PaymentStatusPaid))

		cancelled, err := svc.Cancel(b.ID, testResidentID, models.RoleResident, "plans changed")
		require.NoError(t, err)
		assert.Equal(t, 500.0, cancelled.RefundAmount)
	})
}

func TestSevakCannotCancel(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	b := createTestBooking(t, svc, "10:00")
	sevak := testSevakID
	repo.bookings[b.ID].SevakID = &sevak

	_, err := svc.Cancel(b.ID, testSevakID, models.RoleSevak, "cannot make it")
	var forbidden *utils.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestCancelTerminalBookingRejected(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	b := createTestBooking(t, svc, "10:00")
	repo.bookings[b.ID].Status = models.BookingStatusCompleted

	_, err := svc.Cancel(b.ID, testResidentID, models.RoleResident, "too late")
	var validation *utils.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestReschedule(t *testing.T) {
	svc, repo, _, _, notifier := newTestService()
	b := createTestBooking(t, svc, "10:00")

	newDate := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
	updated, err := svc.Reschedule(b.ID, testResidentID, models.RoleResident, models.RescheduleRequest{
		NewDate: newDate,
		NewTime: "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, newDate, updated.ScheduledDate)
	assert.Equal(t, "14:00", updated.ScheduledTime)
	assert.Contains(t, notifier.types, models.NotificationBookingRescheduled)

	repo.bookings[b.ID].Status = models.BookingStatusInProgress
	_, err = svc.Reschedule(b.ID, testResidentID, models.RoleResident, models.RescheduleRequest{
		NewDate: newDate,
		NewTime: "15:00",
	})
	var validation *utils.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestRescheduleLostRaceIsConflict(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	b := createTestBooking(t, svc, "10:00")

	// Simulate the booking moving to a terminal state between the service's
	// read and the conditional write.
	stale, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	repo.bookings[b.ID].Status = models.BookingStatusCancelled

	entry := models.TimelineEntry{Status: stale.Status, Timestamp: time.Now()}
	err = repo.Reschedule(b.ID, futureDate(), "11:00", entry)
	assert.ErrorIs(t, err, bookingRepo.ErrNoMatch)
}

func TestReportIssue(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	b := createTestBooking(t, svc, "10:00")

	issue, err := svc.ReportIssue(b.ID, testResidentID, models.RoleResident, models.ReportIssueRequest{
		Description: "sevak arrived 40 minutes late",
		Category:    "punctuality",
	})
	require.NoError(t, err)
	assert.Equal(t, b.ID, issue.BookingID)
	assert.Equal(t, testResidentID, issue.ReportedBy)
	require.Len(t, repo.issues, 1)

	stored, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.ReportedIssues, issue.ID)

	_, err = svc.ReportIssue(b.ID, "resident-2", models.RoleResident, models.ReportIssueRequest{
		Description: "not my booking",
	})
	var forbidden *utils.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

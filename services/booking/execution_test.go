package booking

import (
	"testing"
	"time"

	"gharseva/config"
	"gharseva/models"
	"gharseva/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assignedTestBooking(t *testing.T, svc *DefaultBookingService, repo *memBookingRepo) *models.Booking {
	t.Helper()
	config.AppConfig.CheckInOTPAttempts = 5

	b := createTestBooking(t, svc, "10:00")
	sevak := testSevakID
	repo.bookings[b.ID].SevakID = &sevak
	repo.bookings[b.ID].Status = models.BookingStatusAssigned
	return b
}

func checkedOutTestBooking(t *testing.T, svc *DefaultBookingService, repo *memBookingRepo) *models.Booking {
	t.Helper()
	b := assignedTestBooking(t, svc, repo)

	otp, err := svc.RevealCheckInOTP(b.ID, testResidentID)
	require.NoError(t, err)
	_, err = svc.CheckIn(testSevakID, models.CheckInRequest{BookingID: b.ID, OTP: otp})
	require.NoError(t, err)
	_, err = svc.CheckOut(testSevakID, models.CheckOutRequest{BookingID: b.ID})
	require.NoError(t, err)
	return b
}

func TestCheckInWithCorrectOTP(t *testing.T) {
	svc, repo, _, _, notifier := newTestService()
	b := assignedTestBooking(t, svc, repo)

	otp, err := svc.RevealCheckInOTP(b.ID, testResidentID)
	require.NoError(t, err)

	updated, err := svc.CheckIn(testSevakID, models.CheckInRequest{BookingID: b.ID, OTP: otp})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusInProgress, updated.Status)
	assert.NotNil(t, updated.CheckInTime)
	assert.Empty(t, updated.CheckInOTP)
	assert.Contains(t, notifier.types, models.NotificationBookingInProgress)

	// The consumed code cannot be revealed or replayed.
	_, err = svc.RevealCheckInOTP(b.ID, testResidentID)
	var validation *utils.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCheckInWrongOTPCountsAttempt(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	b := assignedTestBooking(t, svc, repo)

	_, err := svc.CheckIn(testSevakID, models.CheckInRequest{BookingID: b.ID, OTP: "000000"})
	var validation *utils.ValidationError
	require.ErrorAs(t, err, &validation)

	stored, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CheckInOTPAttempts)
	assert.Equal(t, models.BookingStatusAssigned, stored.Status)
}

func TestCheckInLocksAfterTooManyAttempts(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	b := assignedTestBooking(t, svc, repo)

	for i := 0; i < config.AppConfig.CheckInOTPAttempts; i++ {
		_, err := svc.CheckIn(testSevakID, models.CheckInRequest{BookingID: b.ID, OTP: "000000"})
		var validation *utils.ValidationError
		require.ErrorAs(t, err, &validation)
	}

	// Even the right code is rejected once the counter hits the limit.
	otp := repo.bookings[b.ID].CheckInOTP
	_, err := svc.CheckIn(testSevakID, models.CheckInRequest{BookingID: b.ID, OTP: otp})
	var forbidden *utils.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestCheckInByWrongSevak(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	b := assignedTestBooking(t, svc, repo)
	otp := repo.bookings[b.ID].CheckInOTP

	_, err := svc.CheckIn("sevak-2", models.CheckInRequest{BookingID: b.ID, OTP: otp})
	var forbidden *utils.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestCheckInRequiresAssignedStatus(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	b := assignedTestBooking(t, svc, repo)
	repo.bookings[b.ID].Status = models.BookingStatusPending
	otp := repo.bookings[b.ID].CheckInOTP

	_, err := svc.CheckIn(testSevakID, models.CheckInRequest{BookingID: b.ID, OTP: otp})
	var validation *utils.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCheckOutKeepsStatusInProgress(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	b := checkedOutTestBooking(t, svc, repo)

	stored, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusInProgress, stored.Status)
	assert.NotNil(t, stored.CheckOutTime)
}

func TestCompleteSplitsCommission(t *testing.T) {
	svc, repo, _, _, notifier := newTestService()
	b := checkedOutTestBooking(t, svc, repo)

	done, err := svc.Complete(b.ID, testSevakID, "all rooms cleaned",
		[]string{"before.jpg"}, []string{"after.jpg"})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, done.Status)
	assert.Equal(t, "all rooms cleaned", done.CompletionNotes)

	require.Len(t, repo.earnings, 1)
	earning := repo.earnings[0]
	assert.Equal(t, b.ID, earning.BookingID)
	assert.Equal(t, testSevakID, earning.SevakID)
	assert.Equal(t, 500.0, earning.Amount)
	assert.Equal(t, 50.0, earning.Commission)
	assert.Equal(t, 450.0, earning.NetAmount)
	assert.Equal(t, models.EarningStatusPending, earning.Status)

	assert.Contains(t, notifier.types, models.NotificationBookingCompleted)
}

func TestCompleteCommissionRoundsToWholeRupee(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	b := checkedOutTestBooking(t, svc, repo)
	repo.bookings[b.ID].TotalAmount = 505.55

	_, err := svc.Complete(b.ID, testSevakID, "done", nil, nil)
	require.NoError(t, err)

	require.Len(t, repo.earnings, 1)
	earning := repo.earnings[0]
	assert.Equal(t, 505.55, earning.Amount)
	assert.Equal(t, 51.0, earning.Commission)
	assert.InDelta(t, 454.55, earning.NetAmount, 1e-9)
}

func TestCompleteRequiresCheckOut(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	b := assignedTestBooking(t, svc, repo)

	otp, err := svc.RevealCheckInOTP(b.ID, testResidentID)
	require.NoError(t, err)
	_, err = svc.CheckIn(testSevakID, models.CheckInRequest{BookingID: b.ID, OTP: otp})
	require.NoError(t, err)

	_, err = svc.Complete(b.ID, testSevakID, "done", nil, nil)
	var validation *utils.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Empty(t, repo.earnings)
}

func TestCompleteRequiresInProgress(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	b := checkedOutTestBooking(t, svc, repo)
	now := time.Now()
	repo.bookings[b.ID].Status = models.BookingStatusCompleted
	repo.bookings[b.ID].CheckOutTime = &now

	_, err := svc.Complete(b.ID, testSevakID, "done", nil, nil)
	var validation *utils.ValidationError
	assert.ErrorAs(t, err, &validation)
}

package assignment

import (
	"fmt"
	"time"

	"gharseva/models"
	"gharseva/utils"

	assignmentRepo "gharseva/database/repository/assignment"
	bookingRepo "gharseva/database/repository/booking"
	userRepo "gharseva/database/repository/user"

	"gharseva/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssignmentService binds sevaks to bookings, either by admin decision or
// sevak self-accept.
type AssignmentService interface {
	// AdminAssign binds (or rebinds) a sevak to a booking. Blacklisted
	// sevaks are rejected.
	AdminAssign(bookingID, adminID string, req models.AssignRequest) (*models.Booking, error)
	// SelfAccept lets a sevak claim an open job. Exactly one of any number
	// of concurrent accepts wins; the rest get a conflict.
	SelfAccept(bookingID, sevakID string) (*models.Booking, error)
	History(bookingID string) ([]models.AssignmentHistory, error)
}

// DefaultAssignmentService is the production implementation of
// AssignmentService.
type DefaultAssignmentService struct {
	Repo        assignmentRepo.AssignmentRepository
	BookingRepo bookingRepo.BookingRepository
	UserRepo    userRepo.UserRepository
	Notifier    notification.NotificationService
}

// NewAssignmentService wires an AssignmentService over its repositories.
func NewAssignmentService(
	repo assignmentRepo.AssignmentRepository,
	bookings bookingRepo.BookingRepository,
	users userRepo.UserRepository,
	notifier notification.NotificationService,
) AssignmentService {
	return &DefaultAssignmentService{Repo: repo, BookingRepo: bookings, UserRepo: users, Notifier: notifier}
}

// AdminAssign binds a sevak to a non-terminal booking. Rebinding an
// already-assigned booking is recorded as a reassignment.
func (s *DefaultAssignmentService) AdminAssign(bookingID, adminID string, req models.AssignRequest) (*models.Booking, error) {
	sevak, err := s.eligibleSevak(req.SevakID)
	if err != nil {
		return nil, err
	}

	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFound("booking")
	}
	if !models.CanTransition(booking.Status, models.BookingStatusAssigned) {
		return nil, utils.NewValidation("cannot assign a " + booking.Status + " booking")
	}

	assignmentType := models.AssignmentTypeManual
	previous := booking.SevakID
	if previous != nil && *previous != "" {
		assignmentType = models.AssignmentTypeReassignment
	}

	entry := models.TimelineEntry{
		Status:    models.BookingStatusAssigned,
		Timestamp: time.Now(),
		Notes:     "assigned to " + sevak.Name,
	}
	if err := s.BookingRepo.Assign(bookingID, sevak.ID, entry); err != nil {
		if err == bookingRepo.ErrNoMatch {
			return nil, utils.NewConflict("booking changed state, please retry")
		}
		return nil, err
	}

	s.record(bookingID, sevak.ID, adminID, assignmentType, previous, req.Notes)
	s.notifyAssigned(booking, sevak.ID)

	if assignmentType == models.AssignmentTypeReassignment && previous != nil {
		s.Notifier.Notify(*previous, models.NotificationBookingAssigned,
			"Job reassigned",
			fmt.Sprintf("Booking %s has been reassigned to another sevak.", booking.BookingNumber),
			map[string]string{"bookingId": booking.ID})
	}

	return s.BookingRepo.GetByID(bookingID)
}

// SelfAccept claims an open job with a compare-and-swap on the booking
// row: first accept wins, later ones observe the lost race as a conflict.
func (s *DefaultAssignmentService) SelfAccept(bookingID, sevakID string) (*models.Booking, error) {
	sevak, err := s.eligibleSevak(sevakID)
	if err != nil {
		return nil, err
	}

	entry := models.TimelineEntry{
		Status:    models.BookingStatusAssigned,
		Timestamp: time.Now(),
		Notes:     "accepted by " + sevak.Name,
	}
	booking, err := s.BookingRepo.AssignIfPending(bookingID, sevakID, entry)
	if err != nil {
		if err == bookingRepo.ErrNoMatch {
			existing, getErr := s.BookingRepo.GetByID(bookingID)
			if getErr == nil && existing == nil {
				return nil, utils.NewNotFound("booking")
			}
			return nil, utils.NewConflict("job is no longer available")
		}
		return nil, err
	}

	s.record(bookingID, sevakID, sevakID, models.AssignmentTypeAuto, nil, "")
	s.notifyAssigned(booking, sevakID)

	utils.GetLogger().Info("Sevak accepted job",
		zap.String("bookingId", bookingID), zap.String("sevakId", sevakID))
	return booking, nil
}

// History returns the booking's assignment log, oldest first.
func (s *DefaultAssignmentService) History(bookingID string) ([]models.AssignmentHistory, error) {
	return s.Repo.ListByBooking(bookingID)
}

// eligibleSevak rejects unknown, wrong-role and blacklisted accounts.
func (s *DefaultAssignmentService) eligibleSevak(sevakID string) (*models.User, error) {
	sevak, err := s.UserRepo.GetByID(sevakID)
	if err != nil {
		return nil, err
	}
	if sevak == nil || sevak.Role != models.RoleSevak {
		return nil, utils.NewNotFound("sevak")
	}
	if sevak.IsBlacklisted {
		return nil, utils.NewForbidden("sevak is blacklisted")
	}
	return sevak, nil
}

// record appends the immutable assignment log row. Log trouble never undoes
// a successful assignment.
func (s *DefaultAssignmentService) record(bookingID, sevakID, assignedBy, assignmentType string, previous *string, notes string) {
	row := &models.AssignmentHistory{
		ID:              uuid.New().String(),
		BookingID:       bookingID,
		SevakID:         sevakID,
		AssignedBy:      assignedBy,
		AssignmentType:  assignmentType,
		PreviousSevakID: previous,
		Notes:           notes,
		CreatedAt:       time.Now(),
	}
	if err := s.Repo.Create(row); err != nil {
		utils.GetLogger().Error("failed to record assignment history",
			zap.String("bookingId", bookingID), zap.Error(err))
	}
}

func (s *DefaultAssignmentService) notifyAssigned(booking *models.Booking, sevakID string) {
	data := map[string]string{"bookingId": booking.ID}
	s.Notifier.Notify(booking.ResidentID, models.NotificationBookingAssigned,
		"Sevak assigned",
		fmt.Sprintf("A sevak has been assigned to booking %s.", booking.BookingNumber), data)
	s.Notifier.Notify(sevakID, models.NotificationBookingAssigned,
		"New job assigned",
		fmt.Sprintf("You have been assigned booking %s on %s at %s.",
			booking.BookingNumber, booking.ScheduledDate, booking.ScheduledTime), data)
}

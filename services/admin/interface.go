package admin

import (
	"gharseva/models"

	blacklistRepo "gharseva/database/repository/blacklist"
	bookingRepo "gharseva/database/repository/booking"
	catalogRepo "gharseva/database/repository/catalog"
	earningsRepo "gharseva/database/repository/earnings"
	userRepo "gharseva/database/repository/user"
)

// Dashboard is the admin analytics snapshot.
type Dashboard struct {
	BookingsByStatus []bookingRepo.StatusCount `json:"bookingsByStatus"`
	CompletedRevenue float64                   `json:"completedRevenue"`
	DailyBookings    []bookingRepo.DailyCount  `json:"dailyBookings"`
	TopServices      []models.Service          `json:"topServices"`
	TopSevaks        []models.EarningsSummary  `json:"topSevaks"`
}

// AdminService covers oversight: analytics, user listing and blacklist
// management.
type AdminService interface {
	GetDashboard(fromDate, toDate string) (*Dashboard, error)
	ListUsers(role string, page, limit int) ([]models.User, int64, error)

	// BlacklistSevak flags a sevak and records the action. Temporary bans
	// carry an end date and are lifted by the hourly sweep.
	BlacklistSevak(sevakID, adminID string, req models.BlacklistRequest) (*models.BlacklistRecord, error)
	// ReinstateSevak lifts a ban ahead of its end date.
	ReinstateSevak(sevakID, adminID string) error
	BlacklistHistory(sevakID string) ([]models.BlacklistRecord, error)
	ListBlacklisted(page, limit int) ([]models.BlacklistRecord, int64, error)

	// SweepExpiredBlacklists reinstates sevaks whose temporary bans have
	// lapsed. Run hourly by the scheduler; returns how many were lifted.
	SweepExpiredBlacklists() (int, error)
}

// DefaultAdminService is the production implementation of AdminService.
type DefaultAdminService struct {
	UserRepo      userRepo.UserRepository
	BookingRepo   bookingRepo.BookingRepository
	CatalogRepo   catalogRepo.CatalogRepository
	EarningsRepo  earningsRepo.EarningsRepository
	BlacklistRepo blacklistRepo.BlacklistRepository
}

// NewAdminService wires an AdminService over its repositories.
func NewAdminService(
	users userRepo.UserRepository,
	bookings bookingRepo.BookingRepository,
	catalog catalogRepo.CatalogRepository,
	earnings earningsRepo.EarningsRepository,
	blacklist blacklistRepo.BlacklistRepository,
) AdminService {
	return &DefaultAdminService{
		UserRepo:      users,
		BookingRepo:   bookings,
		CatalogRepo:   catalog,
		EarningsRepo:  earnings,
		BlacklistRepo: blacklist,
	}
}

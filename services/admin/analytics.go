package admin

import (
	"time"

	"gharseva/models"
	"gharseva/utils"
)

// GetDashboard assembles the analytics snapshot from the aggregation
// pipelines. Dates default to the trailing 30 days.
func (s *DefaultAdminService) GetDashboard(fromDate, toDate string) (*Dashboard, error) {
	if toDate == "" {
		toDate = time.Now().Format("2006-01-02")
	}
	if fromDate == "" {
		fromDate = time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", fromDate); err != nil {
		return nil, utils.NewValidation("fromDate must be YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", toDate); err != nil {
		return nil, utils.NewValidation("toDate must be YYYY-MM-DD")
	}

	byStatus, err := s.BookingRepo.CountsByStatus()
	if err != nil {
		return nil, err
	}
	revenue, err := s.BookingRepo.CompletedRevenue()
	if err != nil {
		return nil, err
	}
	daily, err := s.BookingRepo.DailyCounts(fromDate, toDate)
	if err != nil {
		return nil, err
	}
	topServices, err := s.CatalogRepo.TopServicesByBookings(5)
	if err != nil {
		return nil, err
	}
	topSevaks, err := s.EarningsRepo.Leaderboard(5)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		BookingsByStatus: byStatus,
		CompletedRevenue: revenue,
		DailyBookings:    daily,
		TopServices:      topServices,
		TopSevaks:        topSevaks,
	}, nil
}

// ListUsers pages accounts by role for the admin console.
func (s *DefaultAdminService) ListUsers(role string, page, limit int) ([]models.User, int64, error) {
	return s.UserRepo.ListByRole(role, page, limit)
}

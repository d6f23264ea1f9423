package earnings

import (
	"gharseva/models"

	earningsRepo "gharseva/database/repository/earnings"
)

// EarningsService exposes the sevak ledger. Rows are written by the
// booking completion transaction; this service only reads.
type EarningsService interface {
	ListForSevak(sevakID string, page, limit int) ([]models.Earning, int64, error)
	SummaryForSevak(sevakID string) (*models.EarningsSummary, error)
	Leaderboard(limit int) ([]models.EarningsSummary, error)
}

// DefaultEarningsService is the production implementation of
// EarningsService.
type DefaultEarningsService struct {
	Repo earningsRepo.EarningsRepository
}

// NewEarningsService wires an EarningsService over the given repository.
func NewEarningsService(repo earningsRepo.EarningsRepository) EarningsService {
	return &DefaultEarningsService{Repo: repo}
}

// ListForSevak pages a sevak's ledger entries.
func (s *DefaultEarningsService) ListForSevak(sevakID string, page, limit int) ([]models.Earning, int64, error) {
	return s.Repo.ListBySevak(sevakID, page, limit)
}

// SummaryForSevak returns the sevak's lifetime totals.
func (s *DefaultEarningsService) SummaryForSevak(sevakID string) (*models.EarningsSummary, error) {
	return s.Repo.SummaryForSevak(sevakID)
}

// Leaderboard ranks sevaks by net earnings for the admin dashboard.
func (s *DefaultEarningsService) Leaderboard(limit int) ([]models.EarningsSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.Repo.Leaderboard(limit)
}

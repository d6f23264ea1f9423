package admin

import (
	"time"

	"gharseva/models"
	"gharseva/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlacklistSevak flags the account and writes the audit record. The flag
// on the user document is what assignment checks; the record carries the
// reason and, for temporary bans, the end date.
func (s *DefaultAdminService) BlacklistSevak(sevakID, adminID string, req models.BlacklistRequest) (*models.BlacklistRecord, error) {
	sevak, err := s.UserRepo.GetByID(sevakID)
	if err != nil {
		return nil, err
	}
	if sevak == nil || sevak.Role != models.RoleSevak {
		return nil, utils.NewNotFound("sevak")
	}
	if sevak.IsBlacklisted {
		return nil, utils.NewConflict("sevak is already blacklisted")
	}

	var endDate *time.Time
	if req.Type == models.BlacklistTypeTemporary {
		t := time.Now().AddDate(0, 0, req.DurationDays)
		endDate = &t
	}

	record := &models.BlacklistRecord{
		ID:            uuid.New().String(),
		SevakID:       sevakID,
		Type:          req.Type,
		Reason:        req.Reason,
		BlacklistedBy: adminID,
		EndDate:       endDate,
		IsActive:      true,
		CreatedAt:     time.Now(),
	}
	if err := s.BlacklistRepo.Create(record); err != nil {
		return nil, err
	}
	if err := s.UserRepo.SetBlacklisted(sevakID, true); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Blacklisted sevak",
		zap.String("sevakId", sevakID), zap.String("type", req.Type))
	return record, nil
}

// ReinstateSevak lifts a ban: the flag clears and every active record is
// closed with the admin's ID on it.
func (s *DefaultAdminService) ReinstateSevak(sevakID, adminID string) error {
	sevak, err := s.UserRepo.GetByID(sevakID)
	if err != nil {
		return err
	}
	if sevak == nil || sevak.Role != models.RoleSevak {
		return utils.NewNotFound("sevak")
	}
	if !sevak.IsBlacklisted {
		return utils.NewValidation("sevak is not blacklisted")
	}

	if _, err := s.BlacklistRepo.DeactivateForSevak(sevakID, adminID); err != nil {
		return err
	}
	if err := s.UserRepo.SetBlacklisted(sevakID, false); err != nil {
		return err
	}

	utils.GetLogger().Info("Reinstated sevak", zap.String("sevakId", sevakID))
	return nil
}

// BlacklistHistory returns a sevak's full audit trail.
func (s *DefaultAdminService) BlacklistHistory(sevakID string) ([]models.BlacklistRecord, error) {
	return s.BlacklistRepo.ListBySevak(sevakID)
}

// ListBlacklisted pages currently active records.
func (s *DefaultAdminService) ListBlacklisted(page, limit int) ([]models.BlacklistRecord, int64, error) {
	return s.BlacklistRepo.ListActive(page, limit)
}

// SweepExpiredBlacklists lifts temporary bans whose end date has passed.
func (s *DefaultAdminService) SweepExpiredBlacklists() (int, error) {
	expired, err := s.BlacklistRepo.ListActiveExpired(time.Now())
	if err != nil {
		return 0, err
	}

	lifted := 0
	for _, record := range expired {
		if _, err := s.BlacklistRepo.DeactivateForSevak(record.SevakID, "system"); err != nil {
			utils.GetLogger().Error("SweepExpiredBlacklists: failed to close record",
				zap.String("sevakId", record.SevakID), zap.Error(err))
			continue
		}
		if err := s.UserRepo.SetBlacklisted(record.SevakID, false); err != nil {
			utils.GetLogger().Error("SweepExpiredBlacklists: failed to clear flag",
				zap.String("sevakId", record.SevakID), zap.Error(err))
			continue
		}
		lifted++
	}

	if lifted > 0 {
		utils.GetLogger().Info("Lifted expired blacklists", zap.Int("count", lifted))
	}
	return lifted, nil
}

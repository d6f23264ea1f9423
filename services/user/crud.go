package user

import (
	"strings"
	"time"

	"gharseva/models"
	"gharseva/utils"
)

// Fields a user may change on their own profile.
var updatableProfileFields = map[string]bool{
	"name":  true,
	"phone": true,
}

// GetProfile returns the account for a user ID.
func (s *DefaultUserService) GetProfile(userID string) (*models.User, error) {
	account, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, utils.NewNotFound("account")
	}
	return account, nil
}

// UpdateProfile applies a whitelisted set of field edits.
func (s *DefaultUserService) UpdateProfile(userID string, updates map[string]interface{}) (*models.User, error) {
	account, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	for field, value := range updates {
		if !updatableProfileFields[field] {
			return nil, utils.NewValidation("field cannot be updated: " + field)
		}
		str, ok := value.(string)
		if !ok || strings.TrimSpace(str) == "" {
			return nil, utils.NewValidation("invalid value for field: " + field)
		}
		switch field {
		case "name":
			account.Name = strings.TrimSpace(str)
		case "phone":
			account.Phone = strings.TrimSpace(str)
		}
	}

	account.UpdatedAt = time.Now()
	if err := s.Repo.Update(account); err != nil {
		return nil, err
	}
	return account, nil
}

// SetFCMToken stores the device push token for a user.
func (s *DefaultUserService) SetFCMToken(userID, token string) error {
	account, err := s.GetProfile(userID)
	if err != nil {
		return err
	}
	account.FCMToken = token
	account.UpdatedAt = time.Now()
	return s.Repo.Update(account)
}

// AddFavorite bookmarks a service for a resident.
func (s *DefaultUserService) AddFavorite(userID, serviceID string) error {
	return s.Repo.AddFavorite(userID, serviceID)
}

// RemoveFavorite drops a bookmark.
func (s *DefaultUserService) RemoveFavorite(userID, serviceID string) error {
	return s.Repo.RemoveFavorite(userID, serviceID)
}

package userRepo

import "gharseva/models"

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID. Returns nil when absent.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address. Returns nil when absent.
	GetByEmail(email string) (*models.User, error)
	// GetByPhone retrieves a user by its phone number. Returns nil when absent.
	GetByPhone(phone string) (*models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// Update modifies an existing user record.
	Update(user *models.User) error
	// ListByRole retrieves users of a role with pagination.
	ListByRole(role string, page, limit int) ([]models.User, int64, error)
	// ListIDsByRole retrieves only the IDs of users of a role; role "" means all.
	ListIDsByRole(role string) ([]string, error)
	// MarkVerified flips the verification flag after OTP confirmation.
	MarkVerified(id string) error
	// SetBlacklisted sets the authoritative blacklist gate on a sevak.
	SetBlacklisted(id string, blacklisted bool) error
	// AddFavorite and RemoveFavorite maintain a resident's favorite services.
	AddFavorite(userID, serviceID string) error
	RemoveFavorite(userID, serviceID string) error
}

package user

import (
	"gharseva/models"

	userRepo "gharseva/database/repository/user"
)

// UserService handles registration, authentication and profile management
// for residents, sevaks and admins.
type UserService interface {
	// Register creates an unverified account and sends a registration OTP
	// to the phone number.
	Register(req models.RegisterRequest) (*models.User, error)
	// VerifyOTP confirms the registration OTP, marks the account verified
	// and returns a token pair.
	VerifyOTP(req models.VerifyOTPRequest) (*models.User, *models.AuthTokens, error)
	// ResendOTP issues a fresh registration OTP for an unverified account.
	ResendOTP(phone string) error

	// Authenticate verifies credentials and returns a token pair.
	Authenticate(req models.LoginRequest) (*models.User, *models.AuthTokens, error)
	// RefreshTokens rotates a refresh token: the presented token is
	// invalidated and a new pair is issued.
	RefreshTokens(refreshToken string) (*models.AuthTokens, error)
	// Logout revokes a refresh token. It never fails: revoking an unknown
	// or already-revoked token is a no-op.
	Logout(refreshToken string)

	GetProfile(userID string) (*models.User, error)
	UpdateProfile(userID string, updates map[string]interface{}) (*models.User, error)
	SetFCMToken(userID, token string) error

	AddFavorite(userID, serviceID string) error
	RemoveFavorite(userID, serviceID string) error
}

// DefaultUserService is the production implementation of UserService.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

// NewUserService wires a UserService over the given repository.
func NewUserService(repo userRepo.UserRepository) UserService {
	return &DefaultUserService{Repo: repo}
}

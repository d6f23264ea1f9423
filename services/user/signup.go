package user

import (
	"strings"
	"time"

	"gharseva/models"
	"gharseva/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register creates an unverified account and kicks off OTP verification.
// Duplicate email or phone is rejected up front; the unique indexes on the
// users collection backstop the race.
func (s *DefaultUserService) Register(req models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)

	existing, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("Register: email lookup failed", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewConflict("an account with this email already exists")
	}

	existing, err = s.Repo.GetByPhone(phone)
	if err != nil {
		utils.GetLogger().Error("Register: phone lookup failed", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewConflict("an account with this phone number already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("Register: failed to hash password", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	account := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hashed),
		Role:         req.Role,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(account); err != nil {
		return nil, err
	}

	if err := utils.InitiateRegistrationOTP(phone); err != nil {
		utils.GetLogger().Error("Register: failed to initiate OTP", zap.String("phone", phone), zap.Error(err))
		return nil, err
	}

	utils.GetLogger().Info("Registered new account pending OTP verification",
		zap.String("userId", account.ID), zap.String("role", account.Role))
	return account, nil
}

// VerifyOTP confirms the registration code, flips the verified flag and
// signs the user in.
func (s *DefaultUserService) VerifyOTP(req models.VerifyOTPRequest) (*models.User, *models.AuthTokens, error) {
	account, err := s.Repo.GetByPhone(strings.TrimSpace(req.Phone))
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		return nil, nil, utils.NewNotFound("account")
	}
	if account.IsVerified {
		return nil, nil, utils.NewValidation("account is already verified")
	}

	if err := utils.VerifyRegistrationOTP(account.Phone, req.OTP); err != nil {
		return nil, nil, err
	}

	if err := s.Repo.MarkVerified(account.ID); err != nil {
		return nil, nil, err
	}
	account.IsVerified = true

	tokens, err := s.issueTokens(account)
	if err != nil {
		return nil, nil, err
	}
	return account, tokens, nil
}

// ResendOTP issues a fresh code for an account still pending verification.
func (s *DefaultUserService) ResendOTP(phone string) error {
	account, err := s.Repo.GetByPhone(strings.TrimSpace(phone))
	if err != nil {
		return err
	}
	if account == nil {
		return utils.NewNotFound("account")
	}
	if account.IsVerified {
		return utils.NewValidation("account is already verified")
	}
	return utils.InitiateRegistrationOTP(account.Phone)
}

package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gharseva/config"
	"gharseva/models"
	"gharseva/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Authenticate verifies credentials and returns a fresh token pair. The
// error message never reveals whether the email or the password was wrong.
func (s *DefaultUserService) Authenticate(req models.LoginRequest) (*models.User, *models.AuthTokens, error) {
	account, err := s.Repo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		utils.GetLogger().Error("Authenticate: lookup failed", zap.Error(err))
		return nil, nil, err
	}
	if account == nil {
		return nil, nil, utils.NewUnauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, utils.NewUnauthorized("invalid email or password")
	}
	if !account.IsVerified {
		return nil, nil, utils.NewForbidden("account is not verified")
	}

	tokens, err := s.issueTokens(account)
	if err != nil {
		return nil, nil, err
	}
	return account, tokens, nil
}

// RefreshTokens rotates a refresh token. The presented token is looked up
// by hash, deleted, and replaced; a reused token is rejected.
func (s *DefaultUserService) RefreshTokens(refreshToken string) (*models.AuthTokens, error) {
	ctx := context.Background()
	client := utils.GetAuthCacheClient()
	key := refreshKey(refreshToken)

	userID, err := client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, utils.NewUnauthorized("invalid or expired refresh token")
		}
		utils.GetLogger().Error("RefreshTokens: cache lookup failed", zap.Error(err))
		return nil, err
	}

	// Rotation: the old token dies whether or not a new pair gets issued.
	if err := client.Del(ctx, key).Err(); err != nil {
		utils.GetLogger().Error("RefreshTokens: failed to revoke old token", zap.Error(err))
		return nil, err
	}

	account, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, utils.NewUnauthorized("account no longer exists")
	}

	return s.issueTokens(account)
}

// Logout revokes a refresh token. Unknown or already-revoked tokens are a
// no-op so logout can never fail for the client.
func (s *DefaultUserService) Logout(refreshToken string) {
	ctx := context.Background()
	if err := utils.GetAuthCacheClient().Del(ctx, refreshKey(refreshToken)).Err(); err != nil {
		utils.GetLogger().Warn("Logout: failed to revoke refresh token", zap.Error(err))
	}
}

// issueTokens mints an access token and an opaque refresh token. Only the
// SHA-256 hash of the refresh token is stored server-side.
func (s *DefaultUserService) issueTokens(account *models.User) (*models.AuthTokens, error) {
	accessTTL := time.Duration(config.AppConfig.AccessTokenMinutes) * time.Minute
	accessToken, err := utils.GenerateToken(account.ID, account.Role, accessTTL)
	if err != nil {
		utils.GetLogger().Error("issueTokens: failed to sign access token", zap.Error(err))
		return nil, err
	}

	refreshToken := uuid.New().String()
	refreshTTL := time.Duration(config.AppConfig.RefreshTokenDays) * 24 * time.Hour

	ctx := context.Background()
	if err := utils.GetAuthCacheClient().Set(ctx, refreshKey(refreshToken), account.ID, refreshTTL).Err(); err != nil {
		utils.GetLogger().Error("issueTokens: failed to store refresh token", zap.Error(err))
		return nil, err
	}

	return &models.AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func refreshKey(token string) string {
	return fmt.Sprintf("refresh:%s", utils.HashToken(token))
}

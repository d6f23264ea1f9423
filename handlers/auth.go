package handlers

import (
	"gharseva/middleware"
	"gharseva/models"
	"gharseva/utils"

	"github.com/gin-gonic/gin"
)

// RegisterHandler creates an unverified account and sends the OTP.
func (hb *HandlerBundle) RegisterHandler(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	account, err := hb.UserSvc.Register(req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, "Registered. Verify the OTP sent to your phone.", account)
}

// VerifyOTPHandler confirms the registration code and signs the user in.
func (hb *HandlerBundle) VerifyOTPHandler(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	account, tokens, err := hb.UserSvc.VerifyOTP(req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Account verified", gin.H{"user": account, "tokens": tokens})
}

// ResendOTPHandler issues a fresh registration code.
func (hb *HandlerBundle) ResendOTPHandler(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	if err := hb.UserSvc.ResendOTP(req.Phone); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "OTP sent", nil)
}

// LoginHandler authenticates credentials and returns a token pair.
func (hb *HandlerBundle) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	account, tokens, err := hb.UserSvc.Authenticate(req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Logged in", gin.H{"user": account, "tokens": tokens})
}

// RefreshHandler rotates a refresh token.
func (hb *HandlerBundle) RefreshHandler(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	tokens, err := hb.UserSvc.RefreshTokens(req.RefreshToken)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Tokens refreshed", tokens)
}

// LogoutHandler revokes a refresh token. Always succeeds.
func (hb *HandlerBundle) LogoutHandler(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		hb.UserSvc.Logout(req.RefreshToken)
	}
	utils.RespondOK(c, "Logged out", nil)
}

// ProfileHandler returns the caller's account.
func (hb *HandlerBundle) ProfileHandler(c *gin.Context) {
	account, err := hb.UserSvc.GetProfile(middleware.CallerID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Profile", account)
}

// UpdateProfileHandler applies whitelisted profile edits.
func (hb *HandlerBundle) UpdateProfileHandler(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	account, err := hb.UserSvc.UpdateProfile(middleware.CallerID(c), updates)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Profile updated", account)
}

// SetFCMTokenHandler stores the caller's push token.
func (hb *HandlerBundle) SetFCMTokenHandler(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	if err := hb.UserSvc.SetFCMToken(middleware.CallerID(c), req.Token); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Push token saved", nil)
}

// AddFavoriteHandler bookmarks a service.
func (hb *HandlerBundle) AddFavoriteHandler(c *gin.Context) {
	if err := hb.UserSvc.AddFavorite(middleware.CallerID(c), c.Param("serviceId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Added to favorites", nil)
}

// RemoveFavoriteHandler drops a bookmark.
func (hb *HandlerBundle) RemoveFavoriteHandler(c *gin.Context) {
	if err := hb.UserSvc.RemoveFavorite(middleware.CallerID(c), c.Param("serviceId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Removed from favorites", nil)
}

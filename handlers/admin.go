package handlers

import (
	"gharseva/middleware"
	"gharseva/models"
	"gharseva/utils"

	"github.com/gin-gonic/gin"
)

// DashboardHandler returns the analytics snapshot.
func (hb *HandlerBundle) DashboardHandler(c *gin.Context) {
	dashboard, err := hb.AdminSvc.GetDashboard(c.Query("from"), c.Query("to"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Dashboard", dashboard)
}

// ListUsersHandler pages accounts, optionally by role.
func (hb *HandlerBundle) ListUsersHandler(c *gin.Context) {
	page, limit := pageParams(c)
	users, total, err := hb.AdminSvc.ListUsers(c.Query("role"), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondPaginated(c, "Users", users, utils.NewPagination(page, limit, total))
}

// AssignSevakHandler binds a sevak to a booking by admin decision.
func (hb *HandlerBundle) AssignSevakHandler(c *gin.Context) {
	var req models.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	booking, err := hb.AssignmentSvc.AdminAssign(c.Param("id"), middleware.CallerID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Sevak assigned", booking)
}

// RefundBookingHandler pushes the refund for a cancelled, paid booking.
func (hb *HandlerBundle) RefundBookingHandler(c *gin.Context) {
	booking, err := hb.PaymentSvc.RefundCancelled(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Refund processed", booking)
}

// BlacklistSevakHandler flags a sevak.
func (hb *HandlerBundle) BlacklistSevakHandler(c *gin.Context) {
	var req models.BlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	record, err := hb.AdminSvc.BlacklistSevak(c.Param("id"), middleware.CallerID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, "Sevak blacklisted", record)
}

// ReinstateSevakHandler lifts a ban.
func (hb *HandlerBundle) ReinstateSevakHandler(c *gin.Context) {
	if err := hb.AdminSvc.ReinstateSevak(c.Param("id"), middleware.CallerID(c)); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Sevak reinstated", nil)
}

// BlacklistHistoryHandler returns a sevak's blacklist audit trail.
func (hb *HandlerBundle) BlacklistHistoryHandler(c *gin.Context) {
	records, err := hb.AdminSvc.BlacklistHistory(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Blacklist history", records)
}

// ListBlacklistedHandler pages active blacklist records.
func (hb *HandlerBundle) ListBlacklistedHandler(c *gin.Context) {
	page, limit := pageParams(c)
	records, total, err := hb.AdminSvc.ListBlacklisted(page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondPaginated(c, "Blacklisted sevaks", records, utils.NewPagination(page, limit, total))
}

// BroadcastHandler records and queues an admin broadcast.
func (hb *HandlerBundle) BroadcastHandler(c *gin.Context) {
	var req models.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	broadcast, err := hb.NotificationSvc.EnqueueBroadcast(req, middleware.CallerID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, "Broadcast queued", broadcast)
}

// ListBroadcastsHandler pages past broadcasts.
func (hb *HandlerBundle) ListBroadcastsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	broadcasts, total, err := hb.NotificationSvc.ListBroadcasts(page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondPaginated(c, "Broadcasts", broadcasts, utils.NewPagination(page, limit, total))
}

package handlers

import (
	"gharseva/middleware"
	"gharseva/utils"

	"github.com/gin-gonic/gin"
)

// NotificationsHandler pages the caller's notifications. ?unread=true
// filters to unread only.
func (hb *HandlerBundle) NotificationsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	unreadOnly := c.Query("unread") == "true"

	rows, total, err := hb.NotificationSvc.ListForUser(middleware.CallerID(c), unreadOnly, page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondPaginated(c, "Notifications", rows, utils.NewPagination(page, limit, total))
}

// UnreadCountHandler returns the caller's unread badge count.
func (hb *HandlerBundle) UnreadCountHandler(c *gin.Context) {
	count, err := hb.NotificationSvc.CountUnread(middleware.CallerID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Unread count", gin.H{"count": count})
}

// MarkReadHandler marks one of the caller's notifications read.
func (hb *HandlerBundle) MarkReadHandler(c *gin.Context) {
	if err := hb.NotificationSvc.MarkRead(c.Param("id"), middleware.CallerID(c)); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Marked read", nil)
}

// MarkAllReadHandler flips all of the caller's unread notifications.
func (hb *HandlerBundle) MarkAllReadHandler(c *gin.Context) {
	count, err := hb.NotificationSvc.MarkAllRead(middleware.CallerID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Marked all read", gin.H{"updated": count})
}

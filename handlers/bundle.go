package handlers

import (
	"strconv"

	"gharseva/utils"

	"gharseva/services/admin"
	"gharseva/services/assignment"
	"gharseva/services/booking"
	"gharseva/services/catalog"
	"gharseva/services/earnings"
	"gharseva/services/notification"
	"gharseva/services/payment"
	"gharseva/services/rating"
	"gharseva/services/user"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups every endpoint's dependencies into one struct that
// the router receives.
type HandlerBundle struct {
	UserSvc         user.UserService
	CatalogSvc      catalog.CatalogService
	BookingSvc      booking.BookingService
	AssignmentSvc   assignment.AssignmentService
	EarningsSvc     earnings.EarningsService
	PaymentSvc      payment.PaymentService
	RatingSvc       rating.RatingService
	NotificationSvc notification.NotificationService
	AdminSvc        admin.AdminService
	Images          *utils.ImageStore
}

// pageParams reads ?page= and ?limit= with sane defaults.
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

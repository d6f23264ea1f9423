package handlers

import (
	"mime/multipart"

	"gharseva/middleware"
	"gharseva/models"
	"gharseva/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OpenJobsHandler lists unassigned pending bookings for self-accept.
func (hb *HandlerBundle) OpenJobsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	jobs, total, err := hb.BookingSvc.ListOpenJobs(page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondPaginated(c, "Open jobs", jobs, utils.NewPagination(page, limit, total))
}

// AcceptJobHandler claims an open job for the calling sevak. Exactly one
// concurrent accept wins.
func (hb *HandlerBundle) AcceptJobHandler(c *gin.Context) {
	booking, err := hb.AssignmentSvc.SelfAccept(c.Param("id"), middleware.CallerID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Job accepted", booking)
}

// MyJobsHandler pages the sevak's assigned bookings.
func (hb *HandlerBundle) MyJobsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	jobs, total, err := hb.BookingSvc.ListForSevak(middleware.CallerID(c), c.Query("status"), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondPaginated(c, "My jobs", jobs, utils.NewPagination(page, limit, total))
}

// CheckInHandler consumes the resident's OTP and starts the job.
func (hb *HandlerBundle) CheckInHandler(c *gin.Context) {
	var req models.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	booking, err := hb.BookingSvc.CheckIn(middleware.CallerID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Checked in", booking)
}

// CheckOutHandler stamps the end of on-site work.
func (hb *HandlerBundle) CheckOutHandler(c *gin.Context) {
	var req models.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	booking, err := hb.BookingSvc.CheckOut(middleware.CallerID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Checked out", booking)
}

// CompleteJobHandler finalizes a job. The request is multipart: notes as a
// form field, before/after photos as file fields uploaded to the image
// store before the service call.
func (hb *HandlerBundle) CompleteJobHandler(c *gin.Context) {
	var req models.CompleteRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.RespondError(c, utils.NewValidation("multipart form required"))
		return
	}

	beforeImages, err := hb.uploadAll(c, form.File["beforeImages"], "bookings/before")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	afterImages, err := hb.uploadAll(c, form.File["afterImages"], "bookings/after")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	booking, err := hb.BookingSvc.Complete(c.Param("id"), middleware.CallerID(c), req.CompletionNotes, beforeImages, afterImages)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Job completed", booking)
}

func (hb *HandlerBundle) uploadAll(c *gin.Context, files []*multipart.FileHeader, folder string) ([]string, error) {
	if hb.Images == nil || len(files) == 0 {
		return nil, nil
	}
	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := hb.Images.Upload(c.Request.Context(), file, folder)
		if err != nil {
			utils.GetLogger().Error("image upload failed", zap.String("file", file.Filename), zap.Error(err))
			return nil, utils.NewValidation("failed to upload image " + file.Filename)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// MyEarningsHandler pages the sevak's ledger.
func (hb *HandlerBundle) MyEarningsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	rows, total, err := hb.EarningsSvc.ListForSevak(middleware.CallerID(c), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondPaginated(c, "Earnings", rows, utils.NewPagination(page, limit, total))
}

// MyEarningsSummaryHandler returns the sevak's lifetime totals.
func (hb *HandlerBundle) MyEarningsSummaryHandler(c *gin.Context) {
	summary, err := hb.EarningsSvc.SummaryForSevak(middleware.CallerID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Earnings summary", summary)
}

// MyRatingsHandler pages the ratings the sevak has received.
func (hb *HandlerBundle) MyRatingsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	ratings, total, err := hb.RatingSvc.ListForSevak(middleware.CallerID(c), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondPaginated(c, "Ratings received", ratings, utils.NewPagination(page, limit, total))
}

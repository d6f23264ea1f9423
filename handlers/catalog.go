package handlers

import (
	"strconv"

	"gharseva/middleware"
	"gharseva/models"
	"gharseva/utils"

	"github.com/gin-gonic/gin"
)

// ListCategoriesHandler lists all catalog categories.
func (hb *HandlerBundle) ListCategoriesHandler(c *gin.Context) {
	categories, err := hb.CatalogSvc.ListCategories()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Categories", categories)
}

// CreateCategoryHandler adds a category. Admin only.
func (hb *HandlerBundle) CreateCategoryHandler(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		IconURL string `json:"iconUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	category, err := hb.CatalogSvc.CreateCategory(req.Name, req.IconURL)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, "Category created", category)
}

// ListServicesHandler pages services, optionally filtered by category.
func (hb *HandlerBundle) ListServicesHandler(c *gin.Context) {
	page, limit := pageParams(c)
	services, total, err := hb.CatalogSvc.ListServices(c.Query("categoryId"), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondPaginated(c, "Services", services, utils.NewPagination(page, limit, total))
}

// GetServiceHandler fetches one service.
func (hb *HandlerBundle) GetServiceHandler(c *gin.Context) {
	service, err := hb.CatalogSvc.GetService(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Service", service)
}

// PopularServicesHandler returns the most-booked services.
func (hb *HandlerBundle) PopularServicesHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	services, err := hb.CatalogSvc.PopularServices(limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Popular services", services)
}

// FavoriteServicesHandler resolves the caller's bookmarked services.
func (hb *HandlerBundle) FavoriteServicesHandler(c *gin.Context) {
	services, err := hb.CatalogSvc.FavoriteServices(middleware.CallerID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Favorite services", services)
}

// CreateServiceHandler adds a catalog entry. Admin only.
func (hb *HandlerBundle) CreateServiceHandler(c *gin.Context) {
	var req models.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	service, err := hb.CatalogSvc.CreateService(req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, "Service created", service)
}

// UpdateServiceHandler applies partial catalog edits. Admin only.
func (hb *HandlerBundle) UpdateServiceHandler(c *gin.Context) {
	var req models.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidation(err.Error()))
		return
	}

	service, err := hb.CatalogSvc.UpdateService(c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Service updated", service)
}

// RatingsForServiceHandler pages a service's ratings.
func (hb *HandlerBundle) RatingsForServiceHandler(c *gin.Context) {
	page, limit := pageParams(c)
	ratings, total, err := hb.RatingSvc.ListForService(c.Param("id"), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondPaginated(c, "Ratings", ratings, utils.NewPagination(page, limit, total))
}

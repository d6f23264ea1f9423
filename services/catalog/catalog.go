package catalog

import (
	"time"

	"gharseva/models"
	"gharseva/utils"

	catalogRepo "gharseva/database/repository/catalog"
	userRepo "gharseva/database/repository/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService manages the category and service catalog.
type CatalogService interface {
	CreateCategory(name, iconURL string) (*models.Category, error)
	ListCategories() ([]models.Category, error)

	CreateService(req models.CreateServiceRequest) (*models.Service, error)
	UpdateService(serviceID string, req models.UpdateServiceRequest) (*models.Service, error)
	GetService(serviceID string) (*models.Service, error)
	ListServices(categoryID string, page, limit int) ([]models.Service, int64, error)
	PopularServices(limit int) ([]models.Service, error)
	FavoriteServices(userID string) ([]models.Service, error)
}

// DefaultCatalogService is the production implementation of CatalogService.
type DefaultCatalogService struct {
	Repo     catalogRepo.CatalogRepository
	UserRepo userRepo.UserRepository
}

// NewCatalogService wires a CatalogService over the given repositories.
func NewCatalogService(repo catalogRepo.CatalogRepository, users userRepo.UserRepository) CatalogService {
	return &DefaultCatalogService{Repo: repo, UserRepo: users}
}

// CreateCategory adds a category to the catalog.
func (s *DefaultCatalogService) CreateCategory(name, iconURL string) (*models.Category, error) {
	now := time.Now()
	category := &models.Category{
		ID:        uuid.New().String(),
		Name:      name,
		IconURL:   iconURL,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.CreateCategory(category); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Created category", zap.String("categoryId", category.ID), zap.String("name", name))
	return category, nil
}

// ListCategories lists all categories.
func (s *DefaultCatalogService) ListCategories() ([]models.Category, error) {
	return s.Repo.ListCategories()
}

// CreateService adds a bookable service entry.
func (s *DefaultCatalogService) CreateService(req models.CreateServiceRequest) (*models.Service, error) {
	now := time.Now()
	service := &models.Service{
		ID:              uuid.New().String(),
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Description:     req.Description,
		BasePrice:       req.BasePrice,
		DurationMinutes: req.DurationMinutes,
		ImageURL:        req.ImageURL,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.CreateService(service); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Created service", zap.String("serviceId", service.ID), zap.String("name", service.Name))
	return service, nil
}

// UpdateService applies a partial edit to a service. Price edits never
// touch existing bookings, which carry their own copy of the price.
func (s *DefaultCatalogService) UpdateService(serviceID string, req models.UpdateServiceRequest) (*models.Service, error) {
	service, err := s.GetService(serviceID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.BasePrice != nil {
		service.BasePrice = *req.BasePrice
	}
	if req.DurationMinutes != nil {
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.ImageURL != nil {
		service.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	service.UpdatedAt = time.Now()
	if err := s.Repo.UpdateService(service); err != nil {
		return nil, err
	}
	return service, nil
}

// GetService fetches one service.
func (s *DefaultCatalogService) GetService(serviceID string) (*models.Service, error) {
	service, err := s.Repo.GetServiceByID(serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, utils.NewNotFound("service")
	}
	return service, nil
}

// ListServices pages through active services, optionally by category.
func (s *DefaultCatalogService) ListServices(categoryID string, page, limit int) ([]models.Service, int64, error) {
	return s.Repo.ListServices(categoryID, page, limit)
}

// PopularServices returns the most-booked services.
func (s *DefaultCatalogService) PopularServices(limit int) ([]models.Service, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.Repo.TopServicesByBookings(limit)
}

// FavoriteServices resolves a resident's bookmarked service IDs.
func (s *DefaultCatalogService) FavoriteServices(userID string) ([]models.Service, error) {
	account, err := s.UserRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, utils.NewNotFound("account")
	}
	if len(account.Favorites) == 0 {
		return []models.Service{}, nil
	}
	return s.Repo.ListServicesByIDs(account.Favorites)
}

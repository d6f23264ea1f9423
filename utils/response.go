package utils

import (
	"net/http"

	"gharseva/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination carries page metadata on list responses.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// NewPagination computes page metadata from a total row count.
func NewPagination(page, limit int, total int64) *Pagination {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return &Pagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}

// RespondOK sends a success envelope.
func RespondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: message, Data: data})
}

// RespondCreated sends a 201 success envelope.
func RespondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Message: message, Data: data})
}

// RespondPaginated sends a success envelope with pagination metadata.
func RespondPaginated(c *gin.Context, message string, data interface{}, p *Pagination) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: message, Data: data, Pagination: p})
}

// RespondError translates a service error into the uniform error body.
// Internal detail is logged but never leaked outside development mode.
func RespondError(c *gin.Context, err error) {
	status := StatusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		GetLogger().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		if config.IsProduction() {
			message = "Internal server error"
		}
	}
	c.JSON(status, APIResponse{Success: false, Message: message})
}

package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// The error taxonomy used across all services. Every handler funnels
// service errors through RespondError, which maps each kind to an HTTP
// status and the uniform {success:false, message} body.

// NotFoundError signals a missing resource.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ValidationError signals bad input or a disallowed state transition.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ForbiddenError signals an authenticated caller acting on a resource
// it does not own.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// UnauthorizedError signals bad, missing or expired credentials.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// ConflictError signals a duplicate write: duplicate registration,
// duplicate rating, or a lost assignment race.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewNotFound(resource string) error      { return &NotFoundError{Resource: resource} }
func NewValidation(msg string) error         { return &ValidationError{Message: msg} }
func NewForbidden(msg string) error          { return &ForbiddenError{Message: msg} }
func NewUnauthorized(msg string) error       { return &UnauthorizedError{Message: msg} }
func NewConflict(msg string) error           { return &ConflictError{Message: msg} }

// StatusForError maps a service error to its HTTP status code.
func StatusForError(err error) int {
	var (
		notFound     *NotFoundError
		validation   *ValidationError
		forbidden    *ForbiddenError
		unauthorized *UnauthorizedError
		conflict     *ConflictError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler is a middleware to catch panics and return structured errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.JSON(http.StatusInternalServerError, APIResponse{
					Success: false,
					Message: "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository"
	"github.com/KeshavDaBoss/smartparkv5/internal/service"

	"github.com/gin-gonic/gin"
)

// errorBody trả message dưới cả "error" và "detail"; frontend đọc "detail".
func errorBody(msg string) gin.H {
	return gin.H{"error": msg, "detail": msg}
}

// respondError ánh xạ lỗi service sang HTTP status.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, repository.ErrDuplicateEntry), errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, service.ErrEligibilityDenied):
		c.JSON(http.StatusForbidden, errorBody(err.Error()))
	case errors.Is(err, domain.ErrInvalidDate), errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorBody(err.Error()))
	default:
		body := errorBody(fallback)
		body["details"] = err.Error()
		c.JSON(http.StatusInternalServerError, body)
	}
}

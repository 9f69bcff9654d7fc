package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"helpdesk/api/internal/models"
	"helpdesk/api/internal/repository"
	"helpdesk/api/internal/service"
)

// respondError maps service and repository sentinels to the boundary error
// shape. Anything unrecognized is logged and reported as a bare 500 so
// internal detail never reaches the caller.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
	case errors.Is(err, repository.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
	case errors.Is(err, models.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
	case errors.Is(err, service.ErrEmailRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
	case errors.Is(err, service.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters"})
	case errors.Is(err, service.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
	case errors.Is(err, service.ErrContactNotStaff):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contact person must have staff role"})
	case errors.Is(err, service.ErrParentCycle):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category creates a cycle"})
	case errors.Is(err, service.ErrContentRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
	case errors.Is(err, repository.ErrAccountNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrChatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"helpdesk/api/internal/middleware"
	"helpdesk/api/internal/models"
)

type messageResponse struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func toMessageResponse(message models.Message) messageResponse {
	return messageResponse{
		ID:        message.ID,
		Sender:    message.SenderID,
		Category:  message.CategoryID,
		Content:   message.Content,
		Timestamp: message.CreatedAt,
	}
}

// ListMessagesByCategory returns a room's history, newest-first.
func (h HandlerSet) ListMessagesByCategory(c *gin.Context) {
	categoryID := c.Query("category_id")
	if categoryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category ID is required"})
		return
	}

	messages, err := h.messages.ListByCategory(c.Request.Context(), categoryID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]messageResponse, 0, len(messages))
	for _, message := range messages {
		resp = append(resp, toMessageResponse(message))
	}
	c.JSON(http.StatusOK, resp)
}

type postMessageRequest struct {
	CategoryID string `json:"category" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

func (h HandlerSet) PostMessage(c *gin.Context) {
	caller, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
		return
	}

	message, err := h.messages.Post(c.Request.Context(), caller.ID, req.CategoryID, req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMessageResponse(message))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpdesk/api/internal/middleware"
	"helpdesk/api/internal/models"
	"helpdesk/api/internal/service"
)

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type accountResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
}

func toAccountResponse(account models.Account) accountResponse {
	return accountResponse{
		ID:        account.ID,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Role:      string(account.Role),
		Active:    account.Active,
	}
}

// RegisterParent is the open self-registration endpoint; the role is always
// parent no matter what the caller sends.
func (h HandlerSet) RegisterParent(c *gin.Context) {
	h.register(c, models.RoleParent)
}

// RegisterStaff is admin-gated at the route and always assigns staff.
func (h HandlerSet) RegisterStaff(c *gin.Context) {
	h.register(c, models.RoleStaff)
}

func (h HandlerSet) register(c *gin.Context, role models.Role) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, role)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAccountResponse(account))
}

// ListAccounts requires a valid role query parameter; admin-only at the
// route.
func (h HandlerSet) ListAccounts(c *gin.Context) {
	role := c.Query("role")
	if role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	accounts, err := h.accounts.ListByRole(c.Request.Context(), role)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, toAccountResponse(account))
	}
	c.JSON(http.StatusOK, resp)
}

// GetAccount resolves per the SelfOrAdmin rule: a non-admin caller receives
// their own account whatever the path id says; an admin may fetch any
// account.
func (h HandlerSet) GetAccount(c *gin.Context) {
	caller, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	if caller.Role != models.RoleAdmin {
		c.JSON(http.StatusOK, toAccountResponse(caller))
		return
	}

	account, err := h.accounts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(account))
}

type updateAccountRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role"`
	Active    *bool   `json:"active"`
	// Email and password fields are accepted in the payload but never
	// applied through this path.
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (h HandlerSet) UpdateAccount(c *gin.Context) {
	caller, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accounts.Update(c.Request.Context(), c.Param("id"), service.UpdateAccountInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Active:    req.Active,
	}, caller.Role == models.RoleAdmin)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAccountResponse(account))
}

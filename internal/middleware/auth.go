package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"helpdesk/api/internal/models"
	"helpdesk/api/internal/security"
	"helpdesk/api/internal/service"
)

const (
	ctxAccountKey = "current_account"
	ctxClaimsKey  = "access_claims"
)

// Auth validates the access token from the Authorization header. The scheme
// prefix is the configured literal ("Token" by default), not "Bearer".
func Auth(scheme string, auth *service.AuthService) gin.HandlerFunc {
	prefix := scheme + " "

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, prefix)

		account, claims, err := auth.ValidateAccess(c.Request.Context(), tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ctxAccountKey, account)
		c.Set(ctxClaimsKey, *claims)

		c.Next()
	}
}

// CurrentAccount returns the account the Auth middleware resolved for this
// request.
func CurrentAccount(c *gin.Context) (models.Account, bool) {
	value, exists := c.Get(ctxAccountKey)
	if !exists {
		return models.Account{}, false
	}
	account, ok := value.(models.Account)
	return account, ok
}

func CurrentClaims(c *gin.Context) (security.AccessClaims, bool) {
	value, exists := c.Get(ctxClaimsKey)
	if !exists {
		return security.AccessClaims{}, false
	}
	claims, ok := value.(security.AccessClaims)
	return claims, ok
}

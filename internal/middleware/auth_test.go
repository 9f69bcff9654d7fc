package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"helpdesk/api/internal/config"
	"helpdesk/api/internal/models"
	"helpdesk/api/internal/repository"
	"helpdesk/api/internal/security"
	"helpdesk/api/internal/service"
)

type staticAccounts map[string]models.Account

func (s staticAccounts) Create(context.Context, models.Account) error { return nil }

func (s staticAccounts) FindByEmail(_ context.Context, email string) (models.Account, error) {
	account, ok := s[email]
	if !ok {
		return models.Account{}, repository.ErrAccountNotFound
	}
	return account, nil
}

func (s staticAccounts) GetByID(_ context.Context, id string) (models.Account, error) {
	for _, account := range s {
		if account.ID == id {
			return account, nil
		}
	}
	return models.Account{}, repository.ErrAccountNotFound
}

func (s staticAccounts) ListByRole(context.Context, models.Role) ([]models.Account, error) {
	return nil, nil
}

func (s staticAccounts) UpdateProfile(context.Context, models.Account) error { return nil }

type noBlacklist struct{}

func (noBlacklist) Add(context.Context, string, time.Time) error { return nil }
func (noBlacklist) Contains(context.Context, string) (bool, error) { return false, nil }

func testAuthSetup(t *testing.T) (*service.AuthService, *config.AppConfig, staticAccounts) {
	t.Helper()
	cfg := &config.AppConfig{
		Environment: "test",
		Auth: config.AuthConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     time.Hour,
			RefreshTTL:    time.Hour,
			Scheme:        "Token",
		},
	}
	accounts := staticAccounts{
		"admin@x.com":  {ID: "acc-admin", Email: "admin@x.com", Role: models.RoleAdmin, Active: true},
		"parent@x.com": {ID: "acc-parent", Email: "parent@x.com", Role: models.RoleParent, Active: true},
	}
	auth := service.NewAuthService(accounts, noBlacklist{}, cfg, zerolog.Nop())
	return auth, cfg, accounts
}

func accessTokenFor(t *testing.T, cfg *config.AppConfig, account models.Account) string {
	t.Helper()
	token, err := security.GenerateAccessToken(
		cfg.Auth.AccessSecret, account.ID, account.Email, string(account.Role), cfg.Auth.AccessTTL)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	return token
}

func TestAuthAcceptsConfiguredScheme(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth, cfg, accounts := testAuthSetup(t)

	engine := gin.New()
	engine.GET("/whoami", Auth(cfg.Auth.Scheme, auth), func(c *gin.Context) {
		account, _ := CurrentAccount(c)
		c.String(http.StatusOK, account.Email)
	})

	token := accessTokenFor(t, cfg, accounts["parent@x.com"])

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Token "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "parent@x.com" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestAuthRejectsBearerScheme(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth, cfg, accounts := testAuthSetup(t)

	engine := gin.New()
	engine.GET("/whoami", Auth(cfg.Auth.Scheme, auth), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token := accessTokenFor(t, cfg, accounts["parent@x.com"])

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for Bearer scheme, got %d", rec.Code)
	}
}

func TestAuthRejectsMissingOrGarbageToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth, cfg, _ := testAuthSetup(t)

	engine := gin.New()
	engine.GET("/whoami", Auth(cfg.Auth.Scheme, auth), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, header := range []string{"", "Token not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth, cfg, accounts := testAuthSetup(t)

	engine := gin.New()
	engine.GET("/admin",
		Auth(cfg.Auth.Scheme, auth),
		RequireRoles(models.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	cases := []struct {
		email  string
		expect int
	}{
		{"admin@x.com", http.StatusOK},
		{"parent@x.com", http.StatusForbidden},
	}
	for _, tc := range cases {
		token := accessTokenFor(t, cfg, accounts[tc.email])
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Token "+token)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != tc.expect {
			t.Fatalf("%s: expected %d, got %d", tc.email, tc.expect, rec.Code)
		}
	}
}

func TestSelfOrAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth, cfg, accounts := testAuthSetup(t)

	engine := gin.New()
	engine.PATCH("/accounts/:id",
		Auth(cfg.Auth.Scheme, auth),
		SelfOrAdmin("id"),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	cases := []struct {
		email  string
		target string
		expect int
	}{
		{"parent@x.com", "acc-parent", http.StatusOK},
		{"parent@x.com", "acc-admin", http.StatusForbidden},
		{"admin@x.com", "acc-parent", http.StatusOK},
	}
	for _, tc := range cases {
		token := accessTokenFor(t, cfg, accounts[tc.email])
		req := httptest.NewRequest(http.MethodPatch, "/accounts/"+tc.target, nil)
		req.Header.Set("Authorization", "Token "+token)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != tc.expect {
			t.Fatalf("%s on %s: expected %d, got %d", tc.email, tc.target, tc.expect, rec.Code)
		}
	}
}

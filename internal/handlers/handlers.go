package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"helpdesk/api/internal/blacklist"
	"helpdesk/api/internal/config"
	"helpdesk/api/internal/middleware"
	"helpdesk/api/internal/models"
	"helpdesk/api/internal/repository"
	"helpdesk/api/internal/service"
	"helpdesk/api/internal/ws"
)

type HandlerSet struct {
	log        zerolog.Logger
	cfg        *config.AppConfig
	auth       *service.AuthService
	accounts   *service.AccountService
	categories *service.CategoryService
	messages   *service.MessageService
	hub        *ws.Hub
	db         *pgxpool.Pool
	cache      *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, hub *ws.Hub, cfg *config.AppConfig) HandlerSet {
	accountRepo := repository.NewAccountRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	blacklistStore := blacklist.NewStore(cache, repository.NewBlacklistRepository(db))
	accountService := service.NewAccountService(accountRepo, log)

	return HandlerSet{
		log:        log,
		cfg:        cfg,
		auth:       service.NewAuthService(accountRepo, blacklistStore, cfg, log),
		accounts:   accountService,
		categories: service.NewCategoryService(categoryRepo, accountService, log),
		messages:   service.NewMessageService(messageRepo, chatRepo, categoryRepo, hub, log),
		hub:        hub,
		db:         db,
		cache:      cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	authRequired := middleware.Auth(h.cfg.Auth.Scheme, h.auth)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staffOrAdmin := middleware.RequireRoles(models.RoleStaff, models.RoleAdmin)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.POST("/token/refresh", h.RefreshToken)
	auth.GET("/protected", authRequired, h.Protected)

	accounts := v1.Group("/accounts")
	accounts.POST("/register/parent", h.RegisterParent)
	accounts.POST("/register/staff", authRequired, adminOnly, h.RegisterStaff)
	accounts.GET("", authRequired, adminOnly, h.ListAccounts)
	accounts.GET("/:id", authRequired, h.GetAccount)
	accounts.PATCH("/:id", authRequired, middleware.SelfOrAdmin("id"), h.UpdateAccount)

	categories := v1.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.GET("/parents", h.ListParentCategories)
	categories.GET("/sub_categories", h.ListLeafCategories)
	categories.GET("/:id", h.GetCategory)
	categories.POST("", authRequired, staffOrAdmin, h.CreateCategory)
	categories.PUT("/:id", authRequired, staffOrAdmin, h.UpdateCategory)
	categories.PATCH("/:id", authRequired, staffOrAdmin, h.PatchCategory)
	categories.DELETE("/:id", authRequired, staffOrAdmin, h.DeleteCategory)

	messages := v1.Group("/messages", authRequired)
	messages.GET("/by_category", h.ListMessagesByCategory)
	messages.POST("", h.PostMessage)
}

// RegisterLive mounts the websocket endpoint outside the /api prefix.
func (h HandlerSet) RegisterLive(router *gin.RouterGroup) {
	router.GET("/chat/:category_id", h.ChatSocket)
}

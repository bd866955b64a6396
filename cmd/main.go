package main

import (
	"context"
	"time"

	"auction-backoffice/internal/handler"
	"auction-backoffice/internal/middleware"
	"auction-backoffice/internal/service"
	"auction-backoffice/internal/store"
	"auction-backoffice/pkg/config"
	"auction-backoffice/pkg/database"
	"auction-backoffice/pkg/jwtutil"
	"auction-backoffice/pkg/logger"
	"auction-backoffice/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting auction back-office...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.Initialize(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connected and migrated")

	// Stores
	users := store.NewUserStore(db)
	organisations := store.NewOrganisationStore(db)
	memberships := store.NewMembershipStore(db)
	refreshTokens := store.NewRefreshTokenStore(db)
	clients := store.NewClientStore(db)

	// Services
	codec := jwtutil.NewCodec(&cfg.Auth)
	authService := service.NewAuthService(codec, users, memberships, refreshTokens)
	accountService := service.NewAccountService(users, organisations, cfg.Auth.BcryptCost)
	organisationService := service.NewOrganisationService(organisations, memberships, users)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, accountService)
	userHandler := handler.NewUserHandler(accountService)
	organisationHandler := handler.NewOrganisationHandler(organisationService)
	clientHandler := handler.NewClientHandler(clients)

	// Periodic sweep of expired refresh-token rows
	go sweepLoop(authService, cfg.Auth.SweepInterval, log)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/test-token", authHandler.TestToken)

	// API routes - all require a valid access token
	api := e.Group("/api")
	api.Use(middleware.Auth(authService))

	// Profile management
	usersGroup := api.Group("/users")
	usersGroup.GET("/profile", userHandler.GetProfile)
	usersGroup.PATCH("/profile", userHandler.UpdateProfile)
	usersGroup.POST("/change-password", userHandler.ChangePassword)
	usersGroup.DELETE("/profile", userHandler.DeleteAccount)

	// Organisation management
	orgas := api.Group("/organisations")
	orgas.POST("", organisationHandler.Create)
	orgas.GET("", organisationHandler.List)
	orgas.GET("/:orga_uuid", organisationHandler.Get)
	orgas.PATCH("/:orga_uuid", organisationHandler.Update)
	orgas.DELETE("/:orga_uuid", organisationHandler.Delete)

	// Membership management
	orgas.GET("/:orga_uuid/members", organisationHandler.ListMembers)
	orgas.POST("/:orga_uuid/members", organisationHandler.AddMember)
	orgas.DELETE("/:orga_uuid/members/:user_uuid", organisationHandler.RemoveMember)

	// Organisation-scoped business entities
	orgas.POST("/:orga_uuid/clients", clientHandler.Create)
	orgas.GET("/:orga_uuid/clients", clientHandler.List)
	orgas.GET("/:orga_uuid/clients/:uuid", clientHandler.Get)
	orgas.PATCH("/:orga_uuid/clients/:uuid", clientHandler.Update)
	orgas.DELETE("/:orga_uuid/clients/:uuid", clientHandler.Delete)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}

// sweepLoop periodically deletes expired refresh-token rows.
func sweepLoop(auth *service.AuthService, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		deleted, err := auth.SweepExpiredTokens(ctx)
		cancel()
		if err != nil {
			log.Error("Refresh token sweep failed", zap.Error(err))
			continue
		}
		if deleted > 0 {
			prometheus.SweptTokensCounter.Add(float64(deleted))
			log.Info("Swept expired refresh tokens", zap.Int64("deleted", deleted))
		}
	}
}

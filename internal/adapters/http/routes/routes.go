package routes

import (
	"loanlink-partners/internal/adapters/http/handlers"
	"loanlink-partners/internal/adapters/http/middleware"
	"loanlink-partners/internal/adapters/persistence/repositories"
	"loanlink-partners/internal/config"
	"loanlink-partners/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	retry := cfg.RetryPolicy()

	// Initialize repositories
	adminRepo := repositories.NewAdminRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	partnerRepo := repositories.NewPartnerRepository(db)
	preRegRepo := repositories.NewPreRegistrationRepository(db)
	operationRepo := repositories.NewOperationRepository(db)

	// Initialize services
	authService := services.NewAuthService(adminRepo, partnerRepo, refreshTokenRepo, retry, cfg)
	preRegService := services.NewPreRegistrationService(preRegRepo, partnerRepo, retry)
	partnerService := services.NewPartnerService(partnerRepo, refreshTokenRepo, retry)
	operationService := services.NewOperationService(operationRepo, partnerRepo, retry)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	preRegHandler := handlers.NewPreRegistrationHandler(preRegService)
	partnerHandler := handlers.NewPartnerHandler(partnerService)
	operationHandler := handlers.NewOperationHandler(operationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public, rate limited)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Pre-registration routes (screening form is public)
	preRegRoutes := apiV1.Group("/pre-registrations")
	setupPreRegistrationRoutes(preRegRoutes, preRegHandler, cfg)

	// Partner routes
	partnerRoutes := apiV1.Group("/partners")
	partnerRoutes.Use(middleware.AuthMiddleware(cfg))
	setupPartnerRoutes(partnerRoutes, partnerHandler)

	// Operation routes (Partner/Admin)
	operationRoutes := apiV1.Group("/operations")
	operationRoutes.Use(middleware.AuthMiddleware(cfg))
	setupOperationRoutes(operationRoutes, operationHandler)

	// Dashboard routes (Admin only)
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Use(middleware.AdminOnly())
	dashboardRoutes.Get("/", dashboardHandler.GetDashboard)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	router.Post("/admin/login", middleware.AuthRateLimiter(), handler.LoginAdmin)
	router.Post("/partner/login", middleware.AuthRateLimiter(), handler.LoginPartner)
	router.Post("/refresh", handler.Refresh)
	router.Post("/logout", middleware.AuthMiddleware(cfg), handler.Logout)
}

// setupPreRegistrationRoutes configures screening routes
func setupPreRegistrationRoutes(router fiber.Router, handler *handlers.PreRegistrationHandler, cfg *config.Config) {
	// Public submission endpoint, rate limited against form spam
	router.Post("/", middleware.SubmissionRateLimiter(), handler.Create)

	// Back-office endpoints
	admin := router.Group("", middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	admin.Get("/", handler.List)
	admin.Get("/:id", handler.GetByID)
	admin.Put("/:id/status", handler.UpdateStatus)
	admin.Put("/:id/reject", handler.Reject)
	admin.Post("/:id/promote", handler.Promote)
}

// setupPartnerRoutes configures partner account routes
func setupPartnerRoutes(router fiber.Router, handler *handlers.PartnerHandler) {
	router.Get("/me", middleware.PartnerOrAdmin(), handler.GetProfile)

	router.Post("/", middleware.AdminOnly(), handler.Register)
	router.Get("/", middleware.AdminOnly(), handler.List)
	router.Get("/:id", middleware.AdminOnly(), handler.GetByID)
	router.Post("/:id/rotate-credential", middleware.AdminOnly(), handler.RotateCredential)
}

// setupOperationRoutes configures loan-referral case routes
func setupOperationRoutes(router fiber.Router, handler *handlers.OperationHandler) {
	router.Post("/", middleware.PartnerOrAdmin(), handler.Create)
	router.Get("/my", middleware.PartnerOrAdmin(), handler.ListMine)
	router.Get("/", middleware.AdminOnly(), handler.List)
	router.Get("/:id", middleware.PartnerOrAdmin(), handler.GetByID)
	router.Put("/:id", middleware.PartnerOrAdmin(), handler.Update)
	router.Put("/:id/submit", middleware.PartnerOrAdmin(), handler.Submit)
	router.Put("/:id/status", middleware.AdminOnly(), handler.UpdateStatus)
}

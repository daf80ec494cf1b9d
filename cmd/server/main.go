package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"

	"github.com/bytservice/repair-service-api/internal/config"
	"github.com/bytservice/repair-service-api/internal/constants"
	"github.com/bytservice/repair-service-api/internal/database"
	"github.com/bytservice/repair-service-api/internal/handlers"
	"github.com/bytservice/repair-service-api/internal/logging"
	"github.com/bytservice/repair-service-api/internal/middleware"
	"github.com/bytservice/repair-service-api/internal/models"
	"github.com/bytservice/repair-service-api/internal/repository"
	"github.com/bytservice/repair-service-api/internal/services"
)

func main() {
	logging.Setup()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Seed(cfg.SeedDir); err != nil {
		log.Fatalf("Failed to import seed data: %v", err)
	}

	r := gin.Default()

	store, err := sessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	authService := services.NewAuthService(userRepo)
	requestService := services.NewRequestService(requestRepo, userRepo)
	userService := services.NewUserService(userRepo)
	statisticsService := services.NewStatisticsService(db, requestRepo)
	qualityService := services.NewQualityService(requestRepo, feedbackRepo, cfg.OverdueDays)

	authHandler := handlers.NewAuthHandler(authService)
	requestHandler := handlers.NewRequestHandler(requestService)
	userHandler := handlers.NewUserHandler(userService)
	statisticsHandler := handlers.NewStatisticsHandler(statisticsService)
	qualityHandler := handlers.NewQualityHandler(qualityService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Repair service API is running",
		})
	})

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.GET("/logout", authHandler.Logout)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", middleware.RequireAuth(), authHandler.Me)
	}

	// Request lifecycle routes
	requests := r.Group("/requests")
	requests.Use(middleware.RequireAuth())
	{
		requests.GET("", requestHandler.List)
		requests.POST("",
			middleware.RequireRole(models.RoleOperator, models.RoleManager, models.RoleCustomer),
			requestHandler.Create)
		requests.GET("/:id", requestHandler.Get)
		requests.POST("/:id/update",
			middleware.RequireRole(models.RoleOperator, models.RoleTechnician, models.RoleManager),
			requestHandler.Update)
		requests.POST("/:id/comments",
			middleware.RequireRole(models.RoleTechnician, models.RoleManager),
			requestHandler.AddComment)
	}

	// User directory and profile
	users := r.Group("/users")
	users.Use(middleware.RequireAuth())
	{
		users.GET("", middleware.RequireRole(models.RoleManager), userHandler.List)
		users.GET("/profile", userHandler.GetProfile)
		users.POST("/profile", userHandler.UpdateProfile)
	}

	// Statistics (reporting collaborator)
	statistics := r.Group("/statistics")
	statistics.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleManager, models.RoleOperator))
	{
		statistics.GET("", statisticsHandler.Dashboard)
		statistics.GET("/requests", statisticsHandler.Requests)
		statistics.GET("/api/summary", statisticsHandler.Summary)
	}

	// Quality (feedback collaborator); the feedback pages are public so the
	// QR code works without an account
	quality := r.Group("/quality")
	{
		quality.GET("/feedback/:id", qualityHandler.FeedbackForm)
		quality.POST("/feedback/:id", qualityHandler.SubmitFeedback)

		protected := quality.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.GET("/dashboard",
				middleware.RequireRole(models.RoleQualityManager, models.RoleManager),
				qualityHandler.Dashboard)
			protected.GET("/overdue",
				middleware.RequireRole(models.RoleQualityManager, models.RoleManager),
				qualityHandler.Overdue)
			protected.GET("/statistics",
				middleware.RequireRole(models.RoleQualityManager, models.RoleManager),
				qualityHandler.Statistics)
			protected.GET("/qr-code/:id",
				middleware.RequireRole(models.RoleQualityManager, models.RoleManager, models.RoleOperator),
				qualityHandler.QRCode)
		}
	}

	api := r.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.GET("/my-requests-count", requestHandler.MyRequestsCount)
	}

	startOverdueScan(qualityService)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// sessionStore picks redis when configured, cookie otherwise.
func sessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.RedisHost == "" {
		store := cookie.NewStore([]byte(cfg.SessionSecret))
		store.Options(sessionOptions(cfg))
		return store, nil
	}

	store, err := redisStore.NewStore(
		10,
		"tcp",
		cfg.RedisHost+":"+cfg.RedisPort,
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		return nil, err
	}
	store.Options(sessionOptions(cfg))
	return store, nil
}

func sessionOptions(cfg *config.Config) sessions.Options {
	isProduction := cfg.GinMode == "release"
	return sessions.Options{
		Path:     "/",
		MaxAge:   86400, // 24 hours
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // Lax
	}
}

// startOverdueScan logs the overdue backlog once an hour.
func startOverdueScan(qualityService *services.QualityService) {
	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		count, err := qualityService.CountOverdue()
		if err != nil {
			logrus.WithError(err).Error("overdue scan failed")
			return
		}
		logrus.WithField("overdue", count).Info("overdue request scan")
	})
	if err != nil {
		log.Fatalf("Failed to schedule overdue scan: %v", err)
	}
	c.Start()
}

package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"enough/internal/auth"
	"enough/internal/config"
	"enough/internal/database"
	"enough/internal/gamification"
	"enough/internal/handlers"
	"enough/internal/logger"
	"enough/internal/middleware"
	"enough/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Logger.Sync()

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()
	sugar := logger.Sugar

	// Initialize services
	engine := gamification.NewEngine(cfg.Points, sugar)
	authService := services.NewAuthService(db, engine, sugar)
	userService := services.NewUserService(db, sugar)
	referralService := services.NewReferralService(db, engine, sugar)
	achievementService := services.NewAchievementService(db, sugar)
	taskService := services.NewTaskService(db, engine, sugar)
	entryService := services.NewEntryService(db, engine, taskService, referralService, achievementService, sugar)
	goalService := services.NewGoalService(db, sugar)
	presetService := services.NewPresetService(db, sugar)
	leaderboardService := services.NewLeaderboardService(db, sugar)

	// Seed the achievement catalog
	if err := achievementService.Seed(); err != nil {
		log.Fatalf("Failed to seed achievements: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, referralService)
	entryHandler := handlers.NewEntryHandler(entryService)
	goalHandler := handlers.NewGoalHandler(goalService)
	presetHandler := handlers.NewPresetHandler(presetService)
	achievementHandler := handlers.NewAchievementHandler(db, achievementService, userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if cfg.Server.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.Server.FrontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public, rate limited)
	authRoutes := router.Group("/api/auth")
	authRoutes.Use(middleware.RateLimit(cfg.Server.RateLimitPerMinute))
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Authenticated /api/auth/me route
	authProtected := router.Group("/api/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// User endpoints
		userRoutes := api.Group("/user")
		{
			userRoutes.GET("/profile", userHandler.GetProfile)
			userRoutes.PUT("/profile", userHandler.UpdateProfile)
			userRoutes.GET("/referrals", userHandler.GetReferralStats)
		}

		// Entry endpoints
		api.POST("/entries", entryHandler.CreateEntry)
		api.GET("/entries", entryHandler.ListEntries)
		api.GET("/entries/top-tags", entryHandler.TopTags)
		api.GET("/currencies", entryHandler.GetCurrencies)

		// Goal endpoints
		api.POST("/goals", goalHandler.CreateGoal)
		api.GET("/goals", goalHandler.ListGoals)
		api.GET("/goals/exists", goalHandler.CheckGoalsExist)
		api.DELETE("/goals/:id", goalHandler.DeleteGoal)

		// Preset and why-tag endpoints
		api.POST("/presets", presetHandler.CreatePreset)
		api.GET("/presets", presetHandler.ListPresets)
		api.PUT("/presets/:id", presetHandler.UpdatePreset)
		api.DELETE("/presets/:id", presetHandler.DeletePreset)
		api.GET("/tags", presetHandler.GetWhyTags)

		// Achievement endpoints
		api.GET("/achievements", achievementHandler.ListUnlocked)
		api.POST("/achievements/check", achievementHandler.Check)

		// Daily task endpoints
		api.GET("/tasks", taskHandler.ListToday)
		api.POST("/tasks/:id/complete", taskHandler.Complete)

		// Leaderboard
		api.GET("/leaderboard", leaderboardHandler.Get)
	}

	sugar.Infow("server starting", "port", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

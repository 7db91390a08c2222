package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kasu-ict/grievance-portal/internal/auth"
	"github.com/kasu-ict/grievance-portal/internal/complaints"
	"github.com/kasu-ict/grievance-portal/internal/config"
	"github.com/kasu-ict/grievance-portal/internal/jobs"
	"github.com/kasu-ict/grievance-portal/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if cfg.Logging.Level == "debug" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	if cfg.Security.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	logger.Info("Connecting to database",
		zap.String("host", cfg.Database.Host),
		zap.String("db", cfg.Database.DBName))
	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// User directory
	usersRepo := users.NewRepository(db)
	usersService := users.NewService(usersRepo, logger)
	usersHandler := users.NewHandler(usersService)

	// Sessions
	tokens := auth.NewTokenService(cfg.Security.JWTSecret, cfg.Security.SessionTTL)
	authHandler := auth.NewHandler(tokens, usersService)
	authMiddleware := auth.Middleware(tokens, usersService)

	// Complaint store + workflow
	complaintsRepo := complaints.NewRepository(db)
	complaintsService := complaints.NewService(complaintsRepo, usersService, logger)
	complaintsHandler := complaints.NewHandler(complaintsService)

	// Setup Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	api := router.Group("/api/v1")
	session := api.Group("", authMiddleware)
	{
		auth.RegisterRoutes(api, session, authHandler)
		complaintsHandler.RegisterRoutes(session)

		admin := session.Group("", auth.RequireRole(users.RoleAdmin))
		usersHandler.RegisterRoutes(admin)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Background jobs
	sweeper := jobs.NewStaleSweeper(complaintsRepo,
		time.Duration(cfg.Jobs.StaleAfterDays)*24*time.Hour, logger)
	scheduler := cron.New()
	if _, err := scheduler.AddJob(cfg.Jobs.StaleSweepSchedule, sweeper); err != nil {
		logger.Fatal("Failed to schedule stale-case sweep", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start Server
	srv := &http.Server{
		Addr:    cfg.Server.GetServerAddr(),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"checkmate/internal/auth"
	"checkmate/internal/config"
	"checkmate/internal/consensus"
	"checkmate/internal/database"
	"checkmate/internal/handlers"
	"checkmate/internal/jobs"
	"checkmate/internal/logging"
	"checkmate/internal/metrics"
	"checkmate/internal/repository"
	"checkmate/internal/services"
	"checkmate/internal/trigger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.MustNew("info", "json")
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logging.MustNew(cfg.Log.Level, cfg.Log.Format)

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	db, err := database.Connect(cfg.Database, cfg.GetDSN(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	repo := repository.NewRepository(db)

	// Consensus engine and its metrics
	registry := metrics.NewRegistry()
	consensusMetrics, err := metrics.NewConsensusMetrics(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register consensus metrics")
	}
	engine := consensus.NewEngine(repo, consensus.Config{
		ReviewWindow:     cfg.Consensus.ReviewWindow,
		ClaimGracePeriod: cfg.Consensus.ClaimGracePeriod,
		PageSize:         cfg.Consensus.PageSize,
	}, log)
	engine.SetRecorder(consensusMetrics)

	// Reads only trigger a pass when explicitly enabled
	var readHook services.ReadHook
	if cfg.Consensus.TriggerOnRead {
		readHook = trigger.NewOnRead(engine, log)
	}

	// Initialize services
	authService := services.NewAuthService(repo, log)
	reviewerService := services.NewReviewerService(repo, readHook)
	leaderboardService := services.NewLeaderboardService(repo, cfg.App.LeaderboardMinVotes, cfg.App.LeaderboardSize)
	submissionService := services.NewSubmissionService(repo, log)
	ballotService := services.NewBallotService(repo, log)
	adminService := services.NewAdminService(repo, engine, leaderboardService)

	// Start the periodic consensus job
	consensusJob := jobs.NewConsensusJob(engine, cfg.Consensus.CycleInterval, log)
	go consensusJob.Start()

	// Optional message-driven trigger
	var mqttTrigger *trigger.MQTTTrigger
	if cfg.MQTT.Broker != "" {
		mqttTrigger = trigger.NewMQTTTrigger(cfg.MQTT, engine, log)
		if err := mqttTrigger.Start(context.Background()); err != nil {
			log.Error().Err(err).Msg("mqtt trigger disabled")
			mqttTrigger = nil
		}
	}

	// Set up Gin router
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.RegisterRoutes(router, handlers.Handlers{
		Auth:        handlers.NewAuthHandler(authService, reviewerService, log),
		Submissions: handlers.NewSubmissionHandler(submissionService, ballotService, reviewerService, log),
		Dashboard:   handlers.NewDashboardHandler(reviewerService, leaderboardService, log),
		Admin:       handlers.NewAdminHandler(adminService, log),
		Metrics:     metrics.Handler(registry),
	}, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Stop triggers once the server has drained
	if mqttTrigger != nil {
		mqttTrigger.Stop()
	}
	consensusJob.Stop()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info().Msg("server exited")
}

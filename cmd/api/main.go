package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/codequest-dev/challenges-api/internal/capability"
	"github.com/codequest-dev/challenges-api/internal/config"
	"github.com/codequest-dev/challenges-api/internal/database"
	"github.com/codequest-dev/challenges-api/internal/handler"
	"github.com/codequest-dev/challenges-api/internal/middleware"
	"github.com/codequest-dev/challenges-api/internal/models"
	"github.com/codequest-dev/challenges-api/internal/repository"
	"github.com/codequest-dev/challenges-api/internal/router"
	"github.com/codequest-dev/challenges-api/internal/service"
	"github.com/codequest-dev/challenges-api/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(database.PostgresOptions{
		DSN:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Season{},
		&models.Question{},
		&models.QuestionInput{},
		&models.Submission{},
		&models.SeasonRanking{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, standings cache disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	} else {
		logger.Warn().Msg("nats url not configured, event publishing disabled")
	}

	// All capabilities are registered here, before the server starts; the
	// registry is read-only afterwards.
	registry := capability.Default()

	validate := validator.New(validator.WithRequiredStructEnabled())

	questionRepo := repository.NewQuestionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	seasonRepo := repository.NewSeasonRepository(db)
	rankingRepo := repository.NewRankingRepository(db)

	questionService := service.NewQuestionService(questionRepo, registry, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, questionRepo, registry, validate, natsConn, logger)
	seasonService := service.NewSeasonService(seasonRepo, rankingRepo, redisClient, cfg.StandingsCacheTTL, validate, logger)

	questionHandler := handler.NewQuestionHandler(questionService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	seasonHandler := handler.NewSeasonHandler(seasonService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		QuestionHandler:   questionHandler,
		SubmissionHandler: submissionHandler,
		SeasonHandler:     seasonHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		DB:                db,
		Cache:             redisClient,
	})

	taskCtx, cancelTasks := context.WithCancel(context.Background())
	defer cancelTasks()

	if cfg.RankingEnabled {
		recalculator := tasks.NewRankingRecalculator(submissionRepo, rankingRepo, redisClient, natsConn, cfg.RankingInterval, cfg.RankingBatchSize, logger)
		go recalculator.Start(taskCtx)
	}

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, cancelTasks)
}

func waitForShutdown(app *fiber.App, cancelTasks context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	cancelTasks()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

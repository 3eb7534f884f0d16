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

	"github.com/hirelens/hirelens-api/internal/config"
	"github.com/hirelens/hirelens-api/internal/database"
	"github.com/hirelens/hirelens-api/internal/handler"
	"github.com/hirelens/hirelens-api/internal/middleware"
	"github.com/hirelens/hirelens-api/internal/models"
	"github.com/hirelens/hirelens-api/internal/repository"
	"github.com/hirelens/hirelens-api/internal/router"
	"github.com/hirelens/hirelens-api/internal/service"
	"github.com/hirelens/hirelens-api/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserAction{},
		&models.DifficultyLevel{},
		&models.CodeLanguage{},
		&models.Quiz{},
		&models.QuizPointCollection{},
		&models.Assessment{},
		&models.AssessmentQuiz{},
		&models.AssessmentCandidate{},
		&models.AssessmentCandidateEmail{},
		&models.AssessmentPoint{},
		&models.AssessmentResult{},
		&models.AssessmentQuizSubmission{},
		&models.CandidateActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, candidate events disabled")
		} else {
			defer natsConn.Close()
		}
	}

	var mail mailer.Mailer
	if cfg.SendGridAPIKey != "" {
		mail, err = mailer.NewSendGrid(mailer.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			AppName:   cfg.AppName,
			FromEmail: cfg.MailFromEmail,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create sendgrid mailer: %v", err)
		}
	} else {
		mail = mailer.NewConsole(logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	assessmentRepo := repository.NewAssessmentRepository(db)
	candidateRepo := repository.NewAssessmentCandidateRepository(db)
	resultRepo := repository.NewAssessmentResultRepository(db)
	userRepo := repository.NewUserRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	pointRepo := repository.NewAssessmentPointRepository(db)
	quizPointRepo := repository.NewQuizPointCollectionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	var viewCache service.AssessmentViewCache
	if redisClient != nil {
		viewCache = service.NewRedisViewCache(redisClient, cfg.ViewCacheTTL, logger)
	}

	activityService := service.NewActivityService(activityRepo, natsConn, cfg.NATSEventsSubject, logger)
	assessmentService := service.NewAssessmentService(service.AssessmentServiceConfig{
		Assessments: assessmentRepo,
		Candidates:  candidateRepo,
		Results:     resultRepo,
		Users:       userRepo,
		Points:      pointRepo,
		Mailer:      mail,
		Activity:    activityService,
		Cache:       viewCache,
		BaseURL:     cfg.AppBaseURL,
		PointScale:  cfg.PointScale,
		Logger:      logger,
	})
	submissionService := service.NewSubmissionService(
		resultRepo, assessmentRepo, candidateRepo, quizRepo, pointRepo, quizPointRepo,
		activityService, cfg.PointScale, logger,
	)
	scoringService := service.NewScoringService(quizPointRepo, logger)

	assessmentHandler := handler.NewAssessmentHandler(assessmentService, validate, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, scoringService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AssessmentHandler: assessmentHandler,
		SubmissionHandler: submissionHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/app"
	"github.com/Freeeeeet/availability_bot/internal/calendar"
	"github.com/Freeeeeet/availability_bot/internal/config"
	"github.com/Freeeeeet/availability_bot/internal/controller"
	"github.com/Freeeeeet/availability_bot/internal/httpapi"
	"github.com/Freeeeeet/availability_bot/internal/migrations"
	"github.com/Freeeeeet/availability_bot/internal/repository"
	"github.com/Freeeeeet/availability_bot/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if cfg.TelegramToken == "" {
		logger.Fatal("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := app.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("Connected to database")

	if cfg.MigrationsEnabled {
		migrator, err := app.NewMigrator(pool, migrations.FS, logger)
		if err != nil {
			logger.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		_ = migrator.Close()
	}

	redisClient, err := app.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool, logger)
	eventRepo := repository.NewEventRepository(pool, logger)
	sourceRepo := repository.NewCalendarSourceRepository(pool)

	// Calendar sources
	factory := &service.CalendarSourceFactory{
		Google: calendar.GoogleOAuth{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		},
		CacheTTL: cfg.CalendarCacheTTL,
		Logger:   logger,
	}
	if redisClient != nil {
		defer redisClient.Close()
		factory.Store = calendar.NewRedisStore(redisClient)
		logger.Info("Calendar cache enabled", zap.String("redis_addr", cfg.RedisAddr))
	}
	aggregator := calendar.NewAggregator(cfg.CalendarFetchTimeout, logger)

	// Services
	userService := service.NewUserService(userRepo, logger)
	scheduleService := service.NewScheduleService(scheduleRepo, logger)
	eventService := service.NewEventService(eventRepo, logger)
	calendarService := service.NewCalendarService(sourceRepo, logger)
	availabilityService := service.NewAvailabilityService(
		scheduleRepo,
		eventRepo,
		sourceRepo,
		factory,
		aggregator,
		service.FailurePolicy(cfg.CalendarFailurePolicy),
		cfg.BookingHorizon,
		logger,
	)

	// Background prefetch
	scheduler, err := app.NewScheduler(availabilityService, cfg.CalendarPrefetchCron, logger)
	if err != nil {
		logger.Fatal("Failed to create scheduler", zap.Error(err))
	}
	if err := scheduler.Start(ctx); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// HTTP API
	server := httpapi.NewServer(cfg.HTTPAddr, userService, eventService, availabilityService, logger)
	go func() {
		if err := server.Run(); err != nil {
			logger.Error("HTTP API stopped", zap.Error(err))
			stop()
		}
	}()

	// Telegram bot
	botController, err := controller.NewBotController(
		cfg.TelegramToken,
		userService,
		scheduleService,
		eventService,
		calendarService,
		availabilityService,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Failed to register bot commands menu", zap.Error(err))
	}

	logger.Info("Availability bot started",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("failure_policy", cfg.CalendarFailurePolicy))

	botController.Start(ctx)

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP API", zap.Error(err))
	}
	scheduler.Stop()
}

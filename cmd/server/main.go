package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/agrocoop/quotation-service/config"
	"github.com/agrocoop/quotation-service/internal/database"
	"github.com/agrocoop/quotation-service/internal/export"
	"github.com/agrocoop/quotation-service/internal/handlers"
	"github.com/agrocoop/quotation-service/internal/mailer"
	"github.com/agrocoop/quotation-service/internal/refdata"
	"github.com/agrocoop/quotation-service/internal/storage"
	"github.com/agrocoop/quotation-service/internal/sweepers"
	"github.com/agrocoop/quotation-service/internal/telemetry"
	"github.com/agrocoop/quotation-service/internal/workflow"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting quotation service")

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}

	ctx := context.Background()
	if err := database.Connect(
		ctx,
		dbURL,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		cfg.Database.MaxConnLifetime,
		cfg.Database.MaxConnIdleTime,
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("Database connected")

	if err := database.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to apply schema")
	}

	uploads, err := storage.NewUploadStore(cfg.Storage.UploadsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize upload storage")
	}

	store := database.NewStore(database.Pool())
	exporter := export.New(cfg.Export.Dir)
	cache := refdata.New(cfg.RefData)

	router := workflow.Router{
		Commercial: cfg.SMTP.CommercialEmails,
		Supply:     cfg.SMTP.SupplyEmails,
	}

	notifier := mailer.NewNotifier(mailer.NewSMTPSender(cfg.SMTP), logger, cfg.SMTP.QueueSize)
	notifier.Start()
	defer notifier.Stop()

	exportSweeper := sweepers.NewExportSweeper(cfg.Export.Dir, cfg.Export.RetentionDays, cfg.Export.SweepInterval, logger)
	go exportSweeper.Start(ctx)

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(telemetry.Middleware())
	setupRequestLogging(engine, logger)

	h := handlers.New(store, uploads, exporter, cfg.Export.Dir, notifier, router, cache, logger)
	h.RegisterRoutes(engine)
	engine.GET("/metrics", telemetry.Handler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	exportSweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "quotation-service").Logger()
	return &logger
}

func setupRequestLogging(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"kopikurir/cmd"
	"kopikurir/internal/adapters/out/sms"
	"kopikurir/internal/broadcast"
	"kopikurir/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	provider, err := sms.NewHTTPGateway(
		configs.SMSGatewayURL, configs.SMSGatewayToken, configs.SMSSenderName)
	if err != nil {
		log.Fatalf("Error creating SMS gateway: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, provider, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	config := cmd.Config{
		HTTPPort:                envOr("HTTP_PORT", "8080"),
		DBHost:                  envOr("DB_HOST", "localhost"),
		DBPort:                  envOr("DB_PORT", "5432"),
		DBUser:                  os.Getenv("DB_USER"),
		DBPassword:              os.Getenv("DB_PASSWORD"),
		DBName:                  os.Getenv("DB_NAME"),
		DBSslMode:               envOr("DB_SSLMODE", "disable"),
		SMSGatewayURL:           os.Getenv("SMS_GATEWAY_URL"),
		SMSGatewayToken:         os.Getenv("SMS_GATEWAY_TOKEN"),
		SMSSenderName:           os.Getenv("SMS_SENDER_NAME"),
		AssignmentSweepSchedule: envOr("ASSIGNMENT_SWEEP_SCHEDULE", jobs.DefaultAssignmentSweepSchedule),
		OutboundWorkerSchedule:  envOr("OUTBOUND_WORKER_SCHEDULE", jobs.DefaultOutboundReliabilitySchedule),
		WorkerLockWait:          durationEnv("WORKER_LOCK_WAIT", 10*time.Second),
		MessageBackoffBase:      durationEnv("MESSAGE_BACKOFF_BASE", 5*time.Minute),
		WorkerStaleAfter:        durationEnv("WORKER_STALE_AFTER", 5*time.Minute),
		WorkerFailureWindow:     durationEnv("WORKER_FAILURE_WINDOW", 15*time.Minute),
		WorkerFailureThreshold:  intEnv("WORKER_FAILURE_THRESHOLD", 5),
		WorkerBacklogThreshold:  intEnv("WORKER_BACKLOG_THRESHOLD", 100),
		OrderStreamInterval:     durationEnv("ORDER_STREAM_INTERVAL", broadcast.DefaultOrderStreamInterval),
		OrderStreamLifetime:     durationEnv("ORDER_STREAM_LIFETIME", broadcast.DefaultOrderStreamLifetime),
		FleetStreamInterval:     durationEnv("FLEET_STREAM_INTERVAL", broadcast.DefaultFleetStreamInterval),
		FleetStreamLifetime:     durationEnv("FLEET_STREAM_LIFETIME", broadcast.DefaultFleetStreamLifetime),
	}
	return config
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return parsed
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return parsed
}

func startWebServer(app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true

	server := app.CreateServer()
	server.RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil {
			logger.Info("HTTP server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}

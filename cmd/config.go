package cmd

import (
	"fmt"
	"time"
)

// Config carries everything the composition root needs to wire the
// application. Values come from the environment via .env in cmd/app.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	SMSGatewayURL   string
	SMSGatewayToken string
	SMSSenderName   string

	AssignmentSweepSchedule string
	OutboundWorkerSchedule  string

	WorkerLockWait     time.Duration
	MessageBackoffBase time.Duration
	WorkerStaleAfter   time.Duration

	WorkerFailureWindow    time.Duration
	WorkerFailureThreshold int64
	WorkerBacklogThreshold int64

	OrderStreamInterval time.Duration
	OrderStreamLifetime time.Duration
	FleetStreamInterval time.Duration
	FleetStreamLifetime time.Duration
}

// DSN builds the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

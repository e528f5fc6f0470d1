package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; only DATABASE_URL is required.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// SMTP transport
	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	SMTPTimeout  time.Duration

	// Consumer workers sharing the event queue
	Workers int

	// Maximum emails handed to the SMTP transport per second
	MailRateLimit int

	// Queue channel capacities
	QueueUrgentCap   int
	QueueReminderCap int

	// Reminder scan: RRULE cadence and upcoming-service window
	ReminderRecurrence string
	ReminderWindowDays int
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL: dbURL,
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 25)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 5)),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@rosterd.local"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPTimeout:  getDuration("SMTP_TIMEOUT", 10*time.Second),

		Workers: getInt("WORKERS", 5),

		MailRateLimit: getInt("MAIL_RATE_LIMIT", 20),

		QueueUrgentCap:   getInt("QUEUE_URGENT_CAP", 1000),
		QueueReminderCap: getInt("QUEUE_REMINDER_CAP", 5000),

		// Sundays and Wednesdays at 09:00, the cadence the congregation
		// is used to. Override with any RRULE string.
		ReminderRecurrence: getEnv("REMINDER_RRULE", "FREQ=WEEKLY;BYDAY=SU,WE;BYHOUR=9;BYMINUTE=0;BYSECOND=0"),
		ReminderWindowDays: getInt("REMINDER_WINDOW_DAYS", 10),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

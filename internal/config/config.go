package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultLocalDBPath = "imogest.db"
	defaultJWTTTL      = "24h"
	defaultUploadDir   = "uploads"
	defaultBaseURL     = "http://localhost:8080"
	defaultSMSTimeout  = "10s"
)

type Config struct {
	// persistence
	DatabaseURL string // remote store DSN; empty means local-only from the start
	LocalDBPath string // SQLite mirror used when the remote is unreachable

	// auth
	JWTSecret string
	JWTTTL    time.Duration

	// notification channels
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPassword  string
	SMSGatewayURL string
	SMSGatewayKey string
	SMSSenderID   string
	SMSTimeout    time.Duration

	// external kanban board
	MondayAPIKey      string
	MondayAPIURL      string
	MondayBoardID     string
	MondayTechBoardID string

	// media storage
	UploadDir     string
	PublicBaseURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		LocalDBPath:       getenv("LOCAL_DB_PATH", defaultLocalDBPath),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          getenv("SMTP_PORT", "465"),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPassword:      os.Getenv("SMTP_PASSWORD"),
		SMSGatewayURL:     os.Getenv("SMS_GATEWAY_URL"),
		SMSGatewayKey:     os.Getenv("SMS_GATEWAY_KEY"),
		SMSSenderID:       getenv("SMS_SENDER_ID", "IMOGEST"),
		MondayAPIKey:      os.Getenv("MONDAY_API_KEY"),
		MondayAPIURL:      getenv("MONDAY_API_URL", "https://api.monday.com/v2"),
		MondayBoardID:     os.Getenv("MONDAY_BOARD_ID"),
		MondayTechBoardID: os.Getenv("MONDAY_TECH_BOARD_ID"),
		UploadDir:         getenv("UPLOAD_DIR", defaultUploadDir),
		PublicBaseURL:     strings.TrimRight(getenv("PUBLIC_BASE_URL", defaultBaseURL), "/"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	var err error
	cfg.JWTTTL, err = time.ParseDuration(getenv("JWT_TTL", defaultJWTTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.SMSTimeout, err = time.ParseDuration(getenv("SMS_TIMEOUT", defaultSMSTimeout))
	if err != nil {
		return nil, fmt.Errorf("invalid SMS_TIMEOUT: %w", err)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL     string
	HTTPAddr        string
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	MigrationsDir   string
	PollInterval    int // seconds, watcher drain cadence
	MaxRetries      int
	ShutdownTimeout int // seconds
	AutoSyncEnabled bool
	SyncInterval    int // minutes, periodic drift check
	BatchSize       int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error in production)
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	spreadsheetID := os.Getenv("SPREADSHEET_ID")
	if spreadsheetID == "" {
		fmt.Println("Warning: SPREADSHEET_ID not set, Google Sheets sync will not work")
	}

	credentialsFile := os.Getenv("GOOGLE_CREDENTIALS_FILE")
	if credentialsFile == "" {
		credentialsFile = "service-account.json"
	}

	sheetName := os.Getenv("SHEET_NAME")
	if sheetName == "" {
		sheetName = "Deals"
	}

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	return &Config{
		DatabaseURL:     dbURL,
		HTTPAddr:        httpAddr,
		SpreadsheetID:   spreadsheetID,
		SheetName:       sheetName,
		CredentialsFile: credentialsFile,
		MigrationsDir:   migrationsDir,
		PollInterval:    10, // drain outbox every 10 seconds
		MaxRetries:      3,
		ShutdownTimeout: 30,
		AutoSyncEnabled: envBool("AUTO_SYNC_ENABLED", true),
		SyncInterval:    30, // minutes
		BatchSize:       50,
	}, nil
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		fmt.Printf("Warning: invalid value %q for %s, using default\n", v, key)
		return fallback
	}
	return parsed
}

package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	Environment string
	AppId       string

	// Scheduler driver
	TickInterval time.Duration

	// Upper bound for any single data-store call made by the engine
	StoreTimeout time.Duration

	// Execution-log archival (Postgres warehouse)
	ArchiveEnabled  bool
	ArchiveDSN      string
	ArchiveAfter    time.Duration
	ArchiveInterval time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:          getEnv("DB_NAME", "go-crm-automation"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		AppId:           getEnv("APP_ID", "go-crm-automation"),
		TickInterval:    getDuration("TICK_INTERVAL", time.Minute),
		StoreTimeout:    getDuration("STORE_TIMEOUT", 10*time.Second),
		ArchiveEnabled:  getEnv("ARCHIVE_ENABLED", "false") == "true",
		ArchiveDSN:      getEnv("ARCHIVE_DSN", "postgres://localhost:5432/crm_archive?sslmode=disable"),
		ArchiveAfter:    getDuration("ARCHIVE_AFTER", 30*24*time.Hour),
		ArchiveInterval: getDuration("ARCHIVE_INTERVAL", 12*time.Hour),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using default %s", key, value, fallback)
		return fallback
	}
	return d
}

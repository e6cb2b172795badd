package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	LogLevel                string
	GoogleProjectID         string
	FirebaseCredentials     string
	StudyEventsTopic        string
	StudyEventsSubscription string
	UsersCollection         string
	NotificationsCollection string
	ShutdownTimeout         time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	shutdownTimeout := 10 * time.Second
	if t := os.Getenv("SHUTDOWN_TIMEOUT"); t != "" {
		if parsed, err := time.ParseDuration(t); err == nil {
			shutdownTimeout = parsed
		}
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		GoogleProjectID:         getEnv("GOOGLE_PROJECT_ID", ""),
		FirebaseCredentials:     getEnv("FIREBASE_CREDENTIALS", ""),
		StudyEventsTopic:        getEnv("STUDY_EVENTS_TOPIC", ""),
		StudyEventsSubscription: getEnv("STUDY_EVENTS_SUBSCRIPTION", ""),
		UsersCollection:         getEnv("USERS_COLLECTION", "users"),
		NotificationsCollection: getEnv("NOTIFICATIONS_COLLECTION", "notifications"),
		ShutdownTimeout:         shutdownTimeout,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

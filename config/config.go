package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL         string
	RealtimeURL        string
	PaymentKey         string // third-party publishable key
	ClientStateFile    string
	DashboardPollEvery time.Duration

	// Dev backend settings
	Port      string
	JWTSecret string
}

// Load reads configuration from the environment, with a .env file as
// fallback.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		APIBaseURL:         getEnv("API_BASE_URL", "http://localhost:8080"),
		RealtimeURL:        getEnv("REALTIME_URL", "ws://localhost:8080/ws"),
		PaymentKey:         getEnv("PAYMENT_PUBLISHABLE_KEY", "pk_dev_placeholder"),
		ClientStateFile:    getEnv("CLIENT_STATE_FILE", ".foodtruck/state.json"),
		DashboardPollEvery: getDuration("DASHBOARD_POLL_INTERVAL_SECONDS", 30*time.Second),
		Port:               getEnv("PORT", "8080"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	// JWTSecret verifies inbound bearer tokens. Claims are trusted once the
	// signature checks out; no issuance happens in this service.
	JWTSecret string

	// RegistryURL points at the business registry used for affiliation
	// passcode validation. Calls are bounded by RegistryTimeout.
	RegistryURL     string
	RegistryTimeout time.Duration

	NotificationTopic string
	RelayInterval     time.Duration
	RelayBatchSize    int
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "keystone"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	topic := os.Getenv("NOTIFICATION_TOPIC")
	if topic == "" {
		topic = "account.notifications"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		RegistryURL:     os.Getenv("REGISTRY_URL"),
		RegistryTimeout: envDuration("REGISTRY_TIMEOUT", 5*time.Second),

		NotificationTopic: topic,
		RelayInterval:     envDuration("RELAY_INTERVAL", 10*time.Second),
		RelayBatchSize:    envInt("RELAY_BATCH_SIZE", 100),
	}, nil
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

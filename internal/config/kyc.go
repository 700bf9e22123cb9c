package config

import (
	"os"
	"strconv"
	"time"
)

type KYCConfig struct {
	UserServiceURL string
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	DefaultLevel   int
}

func LoadKYCConfig() *KYCConfig {
	return &KYCConfig{
		UserServiceURL: getEnv("KYC_USER_SERVICE_URL", "http://localhost:8081"),
		RequestTimeout: getEnvAsDuration("KYC_REQUEST_TIMEOUT", 5*time.Second),
		CacheTTL:       getEnvAsDuration("KYC_CACHE_TTL", 15*time.Minute),
		DefaultLevel:   getEnvAsInt("KYC_DEFAULT_LEVEL", 1),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBDriver      string
	DBPath        string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	SeedDir       string
	OverdueDays   int
}

func Load() *Config {
	// Missing .env is fine, plain environment variables still apply
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "3001"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBPath:        getEnv("DB_PATH", "data/repair_service.db"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "repairuser"),
		DBPassword:    getEnv("DB_PASSWORD", "repairpassword"),
		DBName:        getEnv("DB_NAME", "repair_service"),
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "repair-service-secret-key"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		SeedDir:       getEnv("SEED_DIR", "seed"),
		OverdueDays:   getEnvInt("OVERDUE_DAYS", 7),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

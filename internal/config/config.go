package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBUrl         string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	TokenTTL      time.Duration
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, falling back to environment")
	}

	return Config{
		Port:          getenv("PORT", "8080"),
		DBUrl:         os.Getenv("DB_URL"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     getenv("JWT_SECRET", "default-secret-key-change-in-production"),
		TokenTTL:      time.Duration(getenvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		AdminName:     getenv("DEFAULT_ADMIN_NAME", "常用名字"),
		AdminEmail:    getenv("DEFAULT_ADMIN_EMAIL", "a@jwt.com"),
		AdminPassword: getenv("DEFAULT_ADMIN_PASSWORD", "admin"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

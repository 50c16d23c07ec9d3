package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

var (
	JWTSecret        string
	JWTRefreshSecret string

	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] no .env file, using system environment")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET", JWTSecret)

	if JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set")
	}

	if v := GetEnv("ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			AccessTokenTTL = d
		}
	}
	if v := GetEnv("REFRESH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			RefreshTokenTTL = d
		}
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

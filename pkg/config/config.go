package config

import (
	"log"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	AppEnv       string
	IsStaging    bool
	IsProduction bool

	JWTSecret   string
	Port        string
	DatabaseDSN string

	AllowedOrigins []string

	// runtime tunables
	RateLimitWindowSeconds int
	RateLimitCapacity      int
	UserConcurrencyLimit   int
	UserCacheTTLSeconds    int
	UserCacheMaxItems      int
)

// loadAppEnv only loads .env outside production so deployed env vars win.
func loadAppEnv() {
	AppEnv = os.Getenv("APP_ENV")
	if AppEnv == "production" {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}
}

func init() {
	loadAppEnv()

	AppEnv = os.Getenv("APP_ENV")
	if AppEnv == "" {
		AppEnv = "staging"
	}
	if !slices.Contains([]string{"staging", "production"}, AppEnv) {
		log.Fatal("environment variable APP_ENV must be 'staging' or 'production'")
	}
	IsStaging = AppEnv == "staging"
	IsProduction = AppEnv == "production"

	JWTSecret = os.Getenv("JWT_SECRET_KEY")
	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "5000"
	}
	DatabaseDSN = os.Getenv("DB_DSN")
	if DatabaseDSN == "" {
		DatabaseDSN = "portal.db"
	}

	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173"
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			AllowedOrigins = append(AllowedOrigins, o)
		}
	}

	// Tunables with defaults
	RateLimitWindowSeconds = atoiOr(os.Getenv("RATE_LIMIT_WINDOW_SECONDS"), 10)
	RateLimitCapacity = atoiOr(os.Getenv("RATE_LIMIT_CAPACITY"), 20)
	UserConcurrencyLimit = atoiOr(os.Getenv("USER_CONCURRENCY_LIMIT"), 4)
	UserCacheTTLSeconds = atoiOr(os.Getenv("USER_CACHE_TTL_SECONDS"), 60)
	UserCacheMaxItems = atoiOr(os.Getenv("USER_CACHE_MAX_ITEMS"), 500)

	if IsProduction && JWTSecret == "" {
		log.Fatal("JWT_SECRET_KEY must be set in production")
	}

	log.Printf("[config] AppEnv=%s IsStaging=%v IsProduction=%v", AppEnv, IsStaging, IsProduction)
	log.Printf("[config] RateLimit window=%ds capacity=%d userConc=%d userCacheTTL=%ds userCacheMax=%d",
		RateLimitWindowSeconds, RateLimitCapacity, UserConcurrencyLimit, UserCacheTTLSeconds, UserCacheMaxItems)
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

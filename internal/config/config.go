package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port             string
	DBPath           string
	ElasticsearchURL string
	IndexPrefix      string

	// 搜索来源: upstream 或 composed
	SearchMode        string
	UpstreamSearchURL string

	JWTSecret     string
	AdminUser     string
	AdminPassword string

	RateLimit       int
	RateLimitWindow time.Duration
}

// Load 加载配置
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	return &Config{
		Port:              envOr("PORT", ":8080"),
		DBPath:            envOr("DB_PATH", "./data/tripmap.db"),
		ElasticsearchURL:  envOr("ELASTICSEARCH_URL", "http://localhost:9200"),
		IndexPrefix:       envOr("INDEX_PREFIX", "tripmap"),
		SearchMode:        envOr("SEARCH_MODE", "composed"),
		UpstreamSearchURL: envOr("UPSTREAM_SEARCH_URL", "http://localhost:8000"),
		JWTSecret:         envOr("JWT_SECRET", "your-secret-key-change-in-production"),
		AdminUser:         envOr("ADMIN_USER", "admin"),
		AdminPassword:     envOr("ADMIN_PASSWORD", "admin"),
		RateLimit:         envIntOr("RATE_LIMIT", 120),
		RateLimitWindow:   time.Duration(envIntOr("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using %d", key, v, fallback)
		return fallback
	}
	return n
}

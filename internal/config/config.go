package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"modpocket/internal/nusmods"
	"modpocket/internal/wallpaper"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	ShutdownTimeout   time.Duration

	// Redis settings. Empty RedisURL disables the module cache and the
	// rate limiter.
	RedisURL string
	CacheTTL time.Duration

	// Image generation settings
	GeminiAPIKey string
	ImagenModels []string

	// NUSMods settings
	NusmodsAPIURL string

	// Logging
	LogLevel string
}

// DefaultConfig returns a Config with sensible defaults. WriteTimeout
// must outlast a full generation round trip.
func DefaultConfig() Config {
	return Config{
		Port:              "8080",
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
		ShutdownTimeout:   5 * time.Second,

		RedisURL: "",
		CacheTTL: 6 * time.Hour,

		ImagenModels: wallpaper.DefaultModels,

		NusmodsAPIURL: nusmods.DefaultAPIURL,

		LogLevel: "info",
	}
}

// Load reads configuration from environment variables and validates it.
func Load() (Config, error) {
	cfg := DefaultConfig()

	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return Config{}, fmt.Errorf("PORT must be a valid number: %w", err)
		}
		cfg.Port = port
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.RedisURL = redisURL
	}

	if ttl := os.Getenv("CACHE_TTL"); ttl != "" {
		dur, err := time.ParseDuration(ttl)
		if err != nil || dur <= 0 {
			return Config{}, errors.New("CACHE_TTL must be a positive duration")
		}
		cfg.CacheTTL = dur
	}

	if timeout := os.Getenv("SHUTDOWN_TIMEOUT"); timeout != "" {
		dur, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf(
				"SHUTDOWN_TIMEOUT must be a valid duration: %w", err)
		}
		cfg.ShutdownTimeout = dur
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY is required")
	}

	if models := os.Getenv("IMAGEN_MODELS"); models != "" {
		cfg.ImagenModels = nil
		for _, m := range strings.Split(models, ",") {
			if m = strings.TrimSpace(m); m != "" {
				cfg.ImagenModels = append(cfg.ImagenModels, m)
			}
		}
		if len(cfg.ImagenModels) == 0 {
			return Config{}, errors.New("IMAGEN_MODELS must name at least one model")
		}
	}

	if apiURL := os.Getenv("NUSMODS_API_URL"); apiURL != "" {
		cfg.NusmodsAPIURL = apiURL
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	return cfg, nil
}

// ListenAddr returns the address string for the HTTP server.
func (c Config) ListenAddr() string {
	return ":" + c.Port
}

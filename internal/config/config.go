package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// BaseURL is the marketplace backend root, e.g. "https://api.example.com".
	BaseURL string

	// HTTPTimeout bounds every backend call. The web client this replaces had
	// no timeout at all; an indefinite hang is never acceptable here.
	HTTPTimeout time.Duration

	GitHubOAuthClientID     string
	GitHubOAuthClientSecret string

	// OAuthListenAddr is where the loopback callback server listens during login.
	OAuthListenAddr string
}

func Load() (Config, error) {
	// Optional: load local .env for development. Missing file is fine.
	_ = godotenv.Load()

	timeoutSeconds := getenvIntDefault("AGENTDECK_HTTP_TIMEOUT_SECONDS", 15)
	if timeoutSeconds < 1 {
		timeoutSeconds = 1
	}
	if timeoutSeconds > 120 {
		timeoutSeconds = 120
	}

	cfg := Config{
		BaseURL:                 strings.TrimRight(strings.TrimSpace(os.Getenv("AGENTDECK_BASE_URL")), "/"),
		HTTPTimeout:             time.Duration(timeoutSeconds) * time.Second,
		GitHubOAuthClientID:     strings.TrimSpace(os.Getenv("AGENTDECK_GITHUB_OAUTH_CLIENT_ID")),
		GitHubOAuthClientSecret: strings.TrimSpace(os.Getenv("AGENTDECK_GITHUB_OAUTH_CLIENT_SECRET")),
		OAuthListenAddr:         getenvDefault("AGENTDECK_OAUTH_LISTEN_ADDR", "127.0.0.1:8917"),
	}

	if cfg.BaseURL == "" {
		return Config{}, errors.New("AGENTDECK_BASE_URL is required")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvIntDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

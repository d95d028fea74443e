package config

import (
	"testing"
	"time"
)

func TestLoad_RequiresBaseURL(t *testing.T) {
	t.Setenv("AGENTDECK_BASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing base URL")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AGENTDECK_BASE_URL", "http://localhost:9000/")
	t.Setenv("AGENTDECK_HTTP_TIMEOUT_SECONDS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://localhost:9000" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("unexpected default timeout: %v", cfg.HTTPTimeout)
	}
	if cfg.OAuthListenAddr == "" {
		t.Fatalf("expected default oauth listen addr")
	}
}

func TestLoad_ClampsTimeout(t *testing.T) {
	t.Setenv("AGENTDECK_BASE_URL", "http://localhost:9000")

	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"0", 1 * time.Second},
		{"600", 120 * time.Second},
		{"30", 30 * time.Second},
		{"junk", 15 * time.Second},
	}
	for _, tc := range cases {
		t.Setenv("AGENTDECK_HTTP_TIMEOUT_SECONDS", tc.raw)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load(%q): %v", tc.raw, err)
		}
		if cfg.HTTPTimeout != tc.want {
			t.Fatalf("timeout for %q: got %v want %v", tc.raw, cfg.HTTPTimeout, tc.want)
		}
	}
}

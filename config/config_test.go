package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.InvitePollInterval != 2000*time.Millisecond {
		t.Errorf("unexpected invite poll interval: %v", cfg.InvitePollInterval)
	}
	if cfg.MatchPollInterval != 1500*time.Millisecond {
		t.Errorf("unexpected match poll interval: %v", cfg.MatchPollInterval)
	}
	if cfg.DeckBufferSize != 5 || cfg.QuestionnaireSize != 12 {
		t.Errorf("unexpected deck sizing: %d/%d", cfg.DeckBufferSize, cfg.QuestionnaireSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("PORT", "9090")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("INVITE_POLL_INTERVAL", "5s")
	t.Setenv("DECK_BUFFER_SIZE", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.AWSRegion != "eu-west-1" {
		t.Errorf("expected region eu-west-1, got %s", cfg.AWSRegion)
	}
	if cfg.InvitePollInterval != 5*time.Second {
		t.Errorf("expected 5s invite poll interval, got %v", cfg.InvitePollInterval)
	}
	if cfg.DeckBufferSize != 10 {
		t.Errorf("expected deck buffer 10, got %d", cfg.DeckBufferSize)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when TMDB_API_KEY is missing")
	}
}

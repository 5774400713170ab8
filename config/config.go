package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port       string
	AWSRegion  string
	S3Bucket   string
	TMDBAPIKey string
	TMDBBaseURL string

	// Cross-client coordination is poll-based; these control the cadence.
	InvitePollInterval time.Duration
	MatchPollInterval  time.Duration

	DeckBufferSize    int
	QuestionnaireSize int
}

// Load reads configuration from environment variables. Every key has a
// default except TMDB_API_KEY, which the catalog client requires.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{
		Port:               "8080",
		AWSRegion:          "us-east-1",
		TMDBBaseURL:        "https://api.themoviedb.org/3",
		InvitePollInterval: 2000 * time.Millisecond,
		MatchPollInterval:  1500 * time.Millisecond,
		DeckBufferSize:     5,
		QuestionnaireSize:  12,
	}

	if v := k.String("port"); v != "" {
		cfg.Port = v
	}
	if v := k.String("aws_region"); v != "" {
		cfg.AWSRegion = v
	}
	if v := k.String("s3_bucket_name"); v != "" {
		cfg.S3Bucket = v
	}
	if v := k.String("tmdb_api_key"); v != "" {
		cfg.TMDBAPIKey = v
	}
	if v := k.String("tmdb_base_url"); v != "" {
		cfg.TMDBBaseURL = v
	}
	if v := k.Duration("invite_poll_interval"); v > 0 {
		cfg.InvitePollInterval = v
	}
	if v := k.Duration("match_poll_interval"); v > 0 {
		cfg.MatchPollInterval = v
	}
	if v := k.Int("deck_buffer_size"); v > 0 {
		cfg.DeckBufferSize = v
	}
	if v := k.Int("questionnaire_size"); v > 0 {
		cfg.QuestionnaireSize = v
	}

	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}

	return cfg, nil
}

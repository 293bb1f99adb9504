package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/halcyonlab/notetracker/internal/config"
)

type envConfig struct {
	Env      string `env:"ENV" envDefault:"production"`
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	NotetakerAPIBaseURL string `env:"NOTETAKER_API_BASE_URL,required"`
	NotetakerAPIKey     string `env:"NOTETAKER_API_KEY,required"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	SupabaseURL     string `env:"SUPABASE_URL"`
	SupabaseAPIKey  string `env:"SUPABASE_API_KEY"`
	RecordingBucket string `env:"RECORDING_BUCKET"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                 raw.Env,
		HTTPPort:            raw.HTTPPort,
		StoreDriver:         internalconfig.StoreDriver(raw.StoreDriver),
		DatabaseURL:         raw.DatabaseURL,
		RedisURL:            raw.RedisURL,
		NotetakerAPIBaseURL: raw.NotetakerAPIBaseURL,
		NotetakerAPIKey:     raw.NotetakerAPIKey,
		GeminiAPIKey:        raw.GeminiAPIKey,
		GeminiModel:         raw.GeminiModel,
		SupabaseURL:         raw.SupabaseURL,
		SupabaseAPIKey:      raw.SupabaseAPIKey,
		RecordingBucket:     raw.RecordingBucket,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

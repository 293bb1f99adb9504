package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Env:                 "development",
		HTTPPort:            "8080",
		StoreDriver:         StoreDriverMemory,
		NotetakerAPIBaseURL: "https://api.example.com",
		NotetakerAPIKey:     "secret",
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"HTTP_PORT", func(c *Config) { c.HTTPPort = "" }},
		{"NOTETAKER_API_BASE_URL", func(c *Config) { c.NotetakerAPIBaseURL = "" }},
		{"NOTETAKER_API_KEY", func(c *Config) { c.NotetakerAPIKey = "" }},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected error, got nil", tc.name)
		}
		if !strings.Contains(err.Error(), tc.name) {
			t.Fatalf("%s: error does not name the field: %v", tc.name, err)
		}
	}
}

func TestValidate_PostgresRequiresDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.StoreDriver = StoreDriverPostgres
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error, got nil")
	}
	cfg.DatabaseURL = "postgres://localhost/notetracker"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_RedisRequiresRedisURL(t *testing.T) {
	cfg := validConfig()
	cfg.StoreDriver = StoreDriverRedis
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error, got nil")
	}
	cfg.RedisURL = "redis://localhost:6379/0"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.StoreDriver = "sqlite"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidate_RecordingBucketNeedsSupabase(t *testing.T) {
	cfg := validConfig()
	cfg.RecordingBucket = "recordings"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error, got nil")
	}
	cfg.SupabaseURL = "https://proj.supabase.co"
	cfg.SupabaseAPIKey = "anon"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestFeatureToggles(t *testing.T) {
	cfg := validConfig()
	if cfg.SummaryEnrichmentEnabled() {
		t.Fatal("enrichment should be off without an api key")
	}
	if cfg.RecordingMirrorEnabled() {
		t.Fatal("mirroring should be off without a bucket")
	}
	cfg.GeminiAPIKey = "key"
	cfg.RecordingBucket = "recordings"
	if !cfg.SummaryEnrichmentEnabled() || !cfg.RecordingMirrorEnabled() {
		t.Fatal("toggles should be on when configured")
	}
}

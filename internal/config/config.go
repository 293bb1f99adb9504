package config

import "fmt"

type StoreDriver string

const (
	StoreDriverPostgres StoreDriver = "postgres"
	StoreDriverMemory   StoreDriver = "memory"
	StoreDriverRedis    StoreDriver = "redis"
)

type Config struct {
	Env      string
	HTTPPort string

	StoreDriver StoreDriver
	DatabaseURL string
	RedisURL    string

	NotetakerAPIBaseURL string
	NotetakerAPIKey     string

	GeminiAPIKey string
	GeminiModel  string

	SupabaseURL     string
	SupabaseAPIKey  string
	RecordingBucket string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case StoreDriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORE_DRIVER=redis")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of postgres, memory, redis, got %q", c.StoreDriver)
	}
	if c.RecordingBucket != "" && (c.SupabaseURL == "" || c.SupabaseAPIKey == "") {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_API_KEY are required when RECORDING_BUCKET is set")
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "HTTP_PORT", value: c.HTTPPort},
		{name: "NOTETAKER_API_BASE_URL", value: c.NotetakerAPIBaseURL},
		{name: "NOTETAKER_API_KEY", value: c.NotetakerAPIKey},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// SummaryEnrichmentEnabled reports whether the LLM summary strategy can run.
func (c *Config) SummaryEnrichmentEnabled() bool {
	return c.GeminiAPIKey != ""
}

// RecordingMirrorEnabled reports whether recordings are mirrored to object storage.
func (c *Config) RecordingMirrorEnabled() bool {
	return c.RecordingBucket != ""
}

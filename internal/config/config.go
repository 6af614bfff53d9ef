// Package config loads process configuration from the environment. Mock-mode
// selection happens here exactly once; the rest of the system receives
// concrete provider implementations and never checks the environment again.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"podcastogist/internal/errors"
)

// Config holds every setting the process reads from the environment.
type Config struct {
	// AppURL is the externally reachable base URL used to build the
	// transcription webhook callback.
	AppURL   string
	HTTPAddr string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TemporalHostPort  string
	TemporalNamespace string
	TemporalTaskQueue string

	AssemblyAIKey     string
	WebhookAuthHeader string
	WebhookAuthValue  string

	OpenAIKey   string
	OpenAIModel string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// MockAI and MockTranscription swap the real providers for
	// deterministic fixtures at wire-up time.
	MockAI            bool
	MockTranscription bool

	Development bool
}

// LoadEnv loads a .env file when one is present. Missing files are not an
// error; environment variables may be set system-wide.
func LoadEnv() error {
	for _, path := range []string{".env", ".env.local", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return errors.Wrapf(err, "load %s", path)
			}
			break
		}
	}
	return nil
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		AppURL:   getEnv("APP_URL", "http://localhost:8080"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		TemporalHostPort:  getEnv("TEMPORAL_HOST", "localhost:7233"),
		TemporalNamespace: getEnv("TEMPORAL_NAMESPACE", "default"),
		TemporalTaskQueue: getEnv("TASK_QUEUE", "podcastogist-pipeline"),

		AssemblyAIKey:     strings.TrimSpace(os.Getenv("ASSEMBLYAI_API_KEY")),
		WebhookAuthHeader: getEnv("WEBHOOK_AUTH_HEADER", "x-webhook-secret"),
		WebhookAuthValue:  os.Getenv("WEBHOOK_AUTH_SECRET"),

		OpenAIKey:   strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel: os.Getenv("OPENAI_MODEL"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "podcastogist-uploads"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		MockAI:            getEnvBool("MOCK_AI", false),
		MockTranscription: getEnvBool("MOCK_TRANSCRIPTION", false),

		Development: getEnvBool("DEVELOPMENT", false),
	}

	if !cfg.MockAI && cfg.OpenAIKey == "" {
		return nil, errors.ErrMissingConfig.WithCause(errors.New("OPENAI_API_KEY is required (or set MOCK_AI=true)"))
	}
	if !cfg.MockTranscription && cfg.AssemblyAIKey == "" {
		return nil, errors.ErrMissingConfig.WithCause(errors.New("ASSEMBLYAI_API_KEY is required (or set MOCK_TRANSCRIPTION=true)"))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names accepted by LLM_PROVIDER.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Port string `yaml:"port" toml:"port"`

	// Text generation
	LLMProvider     string        `yaml:"llm_provider" toml:"llm_provider"`
	GeminiAPIKey    string        `yaml:"gemini_api_key" toml:"gemini_api_key"`
	GeminiModel     string        `yaml:"gemini_model" toml:"gemini_model"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key" toml:"anthropic_api_key"`
	AnthropicModel  string        `yaml:"anthropic_model" toml:"anthropic_model"`
	LLMTimeout      time.Duration `yaml:"llm_timeout" toml:"llm_timeout"`
	ExamName        string        `yaml:"exam_name" toml:"exam_name"`

	// Resource lookups
	YouTubeAPIKey  string        `yaml:"youtube_api_key" toml:"youtube_api_key"`
	SearchAPIKey   string        `yaml:"search_api_key" toml:"search_api_key"`
	SearchEngineID string        `yaml:"search_engine_id" toml:"search_engine_id"`
	ArticleLimit   int           `yaml:"article_limit" toml:"article_limit"`
	SearchTimeout  time.Duration `yaml:"search_timeout" toml:"search_timeout"`

	// HTTP boundary
	ClientURL            string        `yaml:"client_url" toml:"client_url"`
	RateLimitWindow      time.Duration `yaml:"rate_limit_window" toml:"rate_limit_window"`
	RateLimitMaxRequests int           `yaml:"rate_limit_max_requests" toml:"rate_limit_max_requests"`
	MaxBodyBytes         int64         `yaml:"max_body_bytes" toml:"max_body_bytes"`

	// Export worker pool
	WorkerCount  int           `yaml:"worker_count" toml:"worker_count"`
	MaxQueueSize int           `yaml:"max_queue_size" toml:"max_queue_size"`
	JobTTL       time.Duration `yaml:"job_ttl" toml:"job_ttl"`

	// Local output (CLI and TUI)
	OutputDir string `yaml:"output_dir" toml:"output_dir"`

	LogLevel  string `yaml:"log_level" toml:"log_level"`
	LogFormat string `yaml:"log_format" toml:"log_format"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:                 "5000",
		LLMProvider:          ProviderGemini,
		GeminiModel:          "gemini-1.5-pro",
		AnthropicModel:       "claude-sonnet-4-5-20250929",
		LLMTimeout:           120 * time.Second,
		ExamName:             "JEE",
		ArticleLimit:         3,
		SearchTimeout:        15 * time.Second,
		ClientURL:            "http://localhost:3000",
		RateLimitWindow:      15 * time.Minute,
		RateLimitMaxRequests: 100,
		MaxBodyBytes:         10 << 20, // 10MB
		WorkerCount:          2,
		MaxQueueSize:         50,
		JobTTL:               time.Hour,
		OutputDir:            ".",
		LogLevel:             "info",
		LogFormat:            "json",
	}
}

// Load builds the configuration from defaults, then the optional file at
// path, then environment variables.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = envOr("PORT", c.Port)

	c.LLMProvider = envOr("LLM_PROVIDER", c.LLMProvider)
	c.GeminiAPIKey = envOr("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = envOr("GEMINI_MODEL", c.GeminiModel)
	c.AnthropicAPIKey = envOr("ANTHROPIC_API_KEY", c.AnthropicAPIKey)
	c.AnthropicModel = envOr("ANTHROPIC_MODEL", c.AnthropicModel)
	c.LLMTimeout = envDuration("LLM_TIMEOUT", c.LLMTimeout)
	c.ExamName = envOr("EXAM_NAME", c.ExamName)

	c.YouTubeAPIKey = envOr("YOUTUBE_API_KEY", c.YouTubeAPIKey)
	c.SearchAPIKey = envOr("SEARCH_API_KEY", c.SearchAPIKey)
	c.SearchEngineID = envOr("SEARCH_ENGINE_ID", c.SearchEngineID)
	c.ArticleLimit = envInt("ARTICLE_LIMIT", c.ArticleLimit)
	c.SearchTimeout = envDuration("SEARCH_TIMEOUT", c.SearchTimeout)

	c.ClientURL = envOr("CLIENT_URL", c.ClientURL)
	if ms := envInt64("RATE_LIMIT_WINDOW_MS", 0); ms > 0 {
		c.RateLimitWindow = time.Duration(ms) * time.Millisecond
	}
	c.RateLimitWindow = envDuration("RATE_LIMIT_WINDOW", c.RateLimitWindow)
	c.RateLimitMaxRequests = envInt("RATE_LIMIT_MAX_REQUESTS", c.RateLimitMaxRequests)
	c.MaxBodyBytes = envInt64("MAX_BODY_BYTES", c.MaxBodyBytes)

	c.WorkerCount = envInt("WORKER_COUNT", c.WorkerCount)
	c.MaxQueueSize = envInt("MAX_QUEUE_SIZE", c.MaxQueueSize)
	c.JobTTL = envDuration("JOB_TTL", c.JobTTL)

	c.OutputDir = envOr("OUTPUT_DIR", c.OutputDir)
	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)
	c.LogFormat = envOr("LOG_FORMAT", c.LogFormat)
}

// normalize replaces unusable values with defaults.
func (c *Config) normalize() {
	d := Defaults()
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	if c.SearchAPIKey == "" {
		// One Google key usually serves both APIs.
		c.SearchAPIKey = c.YouTubeAPIKey
	}
	if c.ArticleLimit <= 0 {
		c.ArticleLimit = d.ArticleLimit
	}
	if c.ArticleLimit > 10 {
		c.ArticleLimit = 10
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = d.LLMTimeout
	}
	if c.SearchTimeout <= 0 {
		c.SearchTimeout = d.SearchTimeout
	}
	if c.RateLimitWindow <= 0 {
		c.RateLimitWindow = d.RateLimitWindow
	}
	if c.RateLimitMaxRequests <= 0 {
		c.RateLimitMaxRequests = d.RateLimitMaxRequests
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = d.MaxBodyBytes
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
	if strings.TrimSpace(c.ExamName) == "" {
		c.ExamName = d.ExamName
	}
	if c.OutputDir == "" {
		c.OutputDir = d.OutputDir
	}
}

// Validate checks what every command needs: a usable text-generation provider.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderAnthropic, c.LLMProvider)
	}
	return nil
}

// Warnings lists settings whose absence disables a feature without
// preventing startup.
func (c Config) Warnings() []string {
	var out []string
	if c.YouTubeAPIKey == "" {
		out = append(out, "YOUTUBE_API_KEY is not set; video lookups will fail")
	}
	if c.SearchAPIKey == "" {
		out = append(out, "SEARCH_API_KEY is not set; article lookups will fail")
	}
	if c.SearchEngineID == "" {
		out = append(out, "SEARCH_ENGINE_ID is not set; article lookups will fail")
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

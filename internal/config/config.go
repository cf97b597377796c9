package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vladimiradmaev/insulin-uploader/internal/logger"
)

// Provider selects which vision-model backend performs the extraction.
type Provider string

const (
	ProviderOpenRouter Provider = "openrouter"
	ProviderGemini     Provider = "gemini"
)

// Config is the process-wide configuration, loaded once at startup and
// passed explicitly into each component's constructor.
type Config struct {
	Port string

	AIProvider       Provider
	OpenRouterAPIKey string
	GeminiAPIKey     string
	VisionModel      string
	GeminiModel      string

	NightscoutURL   string
	NightscoutToken string

	TimezoneName string
	Location     *time.Location

	AutoConfirm    bool
	RequestTimeout time.Duration

	Logger LoggerConfig
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(value string, defaultValue bool) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return defaultValue
	}
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func parseTimeout(value string, defaultValue time.Duration) time.Duration {
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvOrDefault("PORT", "8000"),

		AIProvider:       Provider(strings.ToLower(getEnvOrDefault("AI_PROVIDER", string(ProviderOpenRouter)))),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		VisionModel:      getEnvOrDefault("VISION_MODEL", "meta-llama/llama-3.2-11b-vision-instruct:free"),
		GeminiModel:      getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),

		NightscoutURL:   strings.TrimRight(os.Getenv("NIGHTSCOUT_URL"), "/"),
		NightscoutToken: os.Getenv("NIGHTSCOUT_TOKEN"),

		TimezoneName: getEnvOrDefault("LOCAL_TZ", "Europe/Zagreb"),

		AutoConfirm:    parseBool(os.Getenv("AUTO_CONFIRM"), false),
		RequestTimeout: parseTimeout(os.Getenv("REQUEST_TIMEOUT"), 60*time.Second),

		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	switch cfg.AIProvider {
	case ProviderOpenRouter:
		if cfg.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY is required when AI_PROVIDER=openrouter")
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER=gemini")
		}
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AIProvider)
	}

	if cfg.NightscoutURL == "" {
		return nil, fmt.Errorf("NIGHTSCOUT_URL is required")
	}
	if cfg.NightscoutToken == "" {
		return nil, fmt.Errorf("NIGHTSCOUT_TOKEN is required")
	}

	loc, err := time.LoadLocation(cfg.TimezoneName)
	if err != nil {
		return nil, fmt.Errorf("invalid LOCAL_TZ %q: %w", cfg.TimezoneName, err)
	}
	cfg.Location = loc

	return cfg, nil
}

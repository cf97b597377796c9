package config

import (
	"testing"
	"time"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("NIGHTSCOUT_URL", "https://ns.example.com/")
	t.Setenv("NIGHTSCOUT_TOKEN", "ns-token")
}

func TestLoadDefaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.AIProvider != ProviderOpenRouter {
		t.Errorf("AIProvider = %q", cfg.AIProvider)
	}
	if cfg.NightscoutURL != "https://ns.example.com" {
		t.Errorf("trailing slash not trimmed: %q", cfg.NightscoutURL)
	}
	if cfg.TimezoneName != "Europe/Zagreb" || cfg.Location == nil {
		t.Errorf("timezone not resolved: %q %v", cfg.TimezoneName, cfg.Location)
	}
	if cfg.AutoConfirm {
		t.Error("AutoConfirm should default to false")
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %s", cfg.RequestTimeout)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("NIGHTSCOUT_URL", "https://ns.example.com")
	t.Setenv("NIGHTSCOUT_TOKEN", "ns-token")
	t.Setenv("OPENROUTER_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing OPENROUTER_API_KEY")
	}
}

func TestLoadGeminiProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("NIGHTSCOUT_URL", "https://ns.example.com")
	t.Setenv("NIGHTSCOUT_TOKEN", "ns-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AIProvider != ProviderGemini {
		t.Errorf("AIProvider = %q", cfg.AIProvider)
	}
}

func TestLoadInvalidTimezone(t *testing.T) {
	setValidEnv(t)
	t.Setenv("LOCAL_TZ", "Not/AZone")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid LOCAL_TZ")
	}
}

func TestLoadAutoConfirmAndTimeout(t *testing.T) {
	setValidEnv(t)
	t.Setenv("AUTO_CONFIRM", "true")
	t.Setenv("REQUEST_TIMEOUT", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.AutoConfirm {
		t.Error("AutoConfirm not parsed")
	}
	if cfg.RequestTimeout != 90*time.Second {
		t.Errorf("RequestTimeout = %s", cfg.RequestTimeout)
	}
}

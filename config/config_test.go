package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults failed: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("expected default address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.WDSBaseURL != "https://www150.statcan.gc.ca/t1/wds/rest" {
		t.Errorf("unexpected default WDS base URL: %s", cfg.WDSBaseURL)
	}
	if cfg.WDSTimeout != 30*time.Second {
		t.Errorf("expected default WDS timeout 30s, got %s", cfg.WDSTimeout)
	}
	if cfg.MetadataCacheSize != 256 {
		t.Errorf("expected default cache size 256, got %d", cfg.MetadataCacheSize)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "prod")
	t.Setenv("WDS_BASE_URL", "http://localhost:8081/rest")
	t.Setenv("WDS_TIMEOUT", "10s")
	t.Setenv("METADATA_CACHE_SIZE", "32")
	t.Setenv("METADATA_CACHE_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9000" || cfg.Env != "prod" {
		t.Errorf("environment not applied: %+v", cfg)
	}
	if cfg.WDSBaseURL != "http://localhost:8081/rest" {
		t.Errorf("WDS base URL not applied: %s", cfg.WDSBaseURL)
	}
	if cfg.WDSTimeout != 10*time.Second || cfg.MetadataCacheTTL != time.Hour {
		t.Errorf("durations not applied: %+v", cfg)
	}
	if cfg.MetadataCacheSize != 32 {
		t.Errorf("cache size not applied: %d", cfg.MetadataCacheSize)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"privileged port", "PORT", "80"},
		{"non-numeric port", "PORT", "abc"},
		{"port out of range", "PORT", "70000"},
		{"unknown env", "ENV", "production!"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"bad WDS scheme", "WDS_BASE_URL", "ftp://example.com/rest"},
		{"WDS URL without host", "WDS_BASE_URL", "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestInvalidDurationFallsBackToDefault(t *testing.T) {
	t.Setenv("WDS_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WDSTimeout != 30*time.Second {
		t.Errorf("expected fallback to default timeout, got %s", cfg.WDSTimeout)
	}
}

func TestGetEnvVarsListsWDSSettings(t *testing.T) {
	vars := GetEnvVars()

	want := map[string]bool{"WDS_BASE_URL": false, "METADATA_CACHE_TTL": false, "PORT": false}
	for _, v := range vars {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("GetEnvVars missing %s", name)
		}
	}
}

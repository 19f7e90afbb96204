package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DirectoryTTL != 24*time.Hour {
		t.Errorf("DirectoryTTL = %v", cfg.DirectoryTTL)
	}
	if cfg.CompareTTL != 15*time.Minute {
		t.Errorf("CompareTTL = %v", cfg.CompareTTL)
	}
	if cfg.AdapterTimeout != 12*time.Second {
		t.Errorf("AdapterTimeout = %v", cfg.AdapterTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("COMPARE_CACHE_TTL", "1m")
	t.Setenv("SHOPSEARCH_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" || cfg.CompareTTL != time.Minute || cfg.ShopSearchAPIKey != "test-key" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

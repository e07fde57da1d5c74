package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "BACKEND_URL", "ANALYSIS_TIMEOUT_SECONDS", "MAX_UPLOAD_BYTES", "SESSION_STORE", "SESSION_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.BackendURL != defaultBackendURL {
		t.Fatalf("unexpected backend url %q", cfg.BackendURL)
	}
	if cfg.AnalysisTimeout != 120*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.AnalysisTimeout)
	}
	if cfg.SessionStoreType != StoreMemory {
		t.Fatalf("unexpected store %q", cfg.SessionStoreType)
	}
	if cfg.SessionTTL != defaultSessionTTL {
		t.Fatalf("unexpected ttl %s", cfg.SessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://analysis.example.com/")
	t.Setenv("ANALYSIS_TIMEOUT_SECONDS", "0")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("SESSION_STORE", "PG")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("TRENDS_ENABLED", "true")

	cfg := Load()
	if !cfg.TrendsEnabled {
		t.Fatalf("expected trends enabled")
	}
	if cfg.BackendURL != "https://analysis.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BackendURL)
	}
	if cfg.AnalysisTimeout != 0 {
		t.Fatalf("expected timeout disabled, got %s", cfg.AnalysisTimeout)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Fatalf("unexpected max upload %d", cfg.MaxUploadBytes)
	}
	if cfg.SessionStoreType != StorePostgres {
		t.Fatalf("unexpected store %q", cfg.SessionStoreType)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("unexpected ttl %s", cfg.SessionTTL)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("ANALYSIS_TIMEOUT_SECONDS", "soon")
	t.Setenv("MAX_UPLOAD_BYTES", "-1")
	t.Setenv("SESSION_TTL", "forever")

	cfg := Load()
	if cfg.AnalysisTimeout != defaultAnalysisTimeout {
		t.Fatalf("expected default timeout, got %s", cfg.AnalysisTimeout)
	}
	if cfg.MaxUploadBytes != defaultMaxUploadBytes {
		t.Fatalf("expected default max upload, got %d", cfg.MaxUploadBytes)
	}
	if cfg.SessionTTL != defaultSessionTTL {
		t.Fatalf("expected default ttl, got %s", cfg.SessionTTL)
	}
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("MEDREPORT_TEST_A=from-file\nMEDREPORT_TEST_B=\"quoted\"\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("MEDREPORT_TEST_A", "from-env")
	t.Setenv("MEDREPORT_TEST_B", "")
	os.Unsetenv("MEDREPORT_TEST_B")

	loadEnvFiles(filepath.Join(dir, "missing.env"), path)

	if got := os.Getenv("MEDREPORT_TEST_A"); got != "from-env" {
		t.Fatalf("expected environment to win, got %q", got)
	}
	if got := os.Getenv("MEDREPORT_TEST_B"); got != "quoted" {
		t.Fatalf("expected quoted value loaded, got %q", got)
	}
}

package config

import (
	"strings"
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LOGLIFT_SOURCE__KIND", "docker")
	t.Setenv("LOGLIFT_SOURCE__CONTAINER", "web")
	t.Setenv("LOGLIFT_SINK__URL", "http://localhost:9200/logs/_doc")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setBaseEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Source.Container != "web" {
		t.Errorf("container: got %q", cfg.Source.Container)
	}
	if cfg.Scaler.DepthThreshold != 100 {
		t.Errorf("default threshold: got %d", cfg.Scaler.DepthThreshold)
	}
	if cfg.Scaler.MinWorkers != 1 || cfg.Scaler.MaxWorkers != 64 {
		t.Errorf("default worker bounds: got %d/%d", cfg.Scaler.MinWorkers, cfg.Scaler.MaxWorkers)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("default port: got %q", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("default log level: got %q", cfg.Log.Level)
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LOGLIFT_SCALER__DEPTH_THRESHOLD", "250")
	t.Setenv("LOGLIFT_SCALER__MAX_WORKERS", "16")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scaler.DepthThreshold != 250 {
		t.Errorf("threshold: got %d", cfg.Scaler.DepthThreshold)
	}
	if cfg.Scaler.MaxWorkers != 16 {
		t.Errorf("max workers: got %d", cfg.Scaler.MaxWorkers)
	}
}

func TestLoadRejectsMissingContainer(t *testing.T) {
	t.Setenv("LOGLIFT_SOURCE__KIND", "docker")
	t.Setenv("LOGLIFT_SINK__URL", "http://localhost:9200/logs/_doc")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for docker source without container")
	}
}

func TestLoadRejectsMissingSinkURL(t *testing.T) {
	t.Setenv("LOGLIFT_SOURCE__KIND", "stdin")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing sink url")
	}
}

func TestLoadRejectsUnknownSourceKind(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LOGLIFT_SOURCE__KIND", "kafka")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for unknown source kind")
	}
	if !strings.Contains(err.Error(), "validate config") {
		t.Errorf("unexpected error: %v", err)
	}
}

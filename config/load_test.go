package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("db driver = %q", cfg.DBDriver)
	}
	if cfg.ListenAddr != "0.0.0.0:8080" {
		t.Fatalf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.AppEnv != "development" {
		t.Fatalf("app env = %q", cfg.AppEnv)
	}
	if cfg.SMTP.Sender != "log" || cfg.SMTP.Port != 587 {
		t.Fatalf("smtp defaults = %+v", cfg.SMTP)
	}
	if !cfg.Scheduler.Enabled || cfg.Scheduler.CronSpec != "0 9 * * *" {
		t.Fatalf("scheduler defaults = %+v", cfg.Scheduler)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("listen_addr: 127.0.0.1:9999\nsmtp:\n  sender: smtp\n  host: mail.example.com\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Fatalf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.SMTP.Sender != "smtp" || cfg.SMTP.Host != "mail.example.com" {
		t.Fatalf("smtp = %+v", cfg.SMTP)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CRIMEDESK_LISTEN_ADDR", "0.0.0.0:7070")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != "0.0.0.0:7070" {
		t.Fatalf("listen addr = %q", cfg.ListenAddr)
	}
}

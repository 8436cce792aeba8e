package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNPrefersExplicitDSN(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://u:p@localhost:5432/partshub"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://u:p@localhost:5432/partshub" {
		t.Fatalf("DSN mutated: %s", cfg.DSN)
	}
}

func TestEnsureDSNBuildsFromParts(t *testing.T) {
	cfg := DBConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "partshub",
		Password: "s3cret",
		Name:     "partshub",
		SSLMode:  "require",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(cfg.DSN, "db.internal:5432/partshub") {
		t.Fatalf("unexpected DSN: %s", cfg.DSN)
	}
	if !strings.Contains(cfg.DSN, "sslmode=require") {
		t.Fatalf("missing sslmode: %s", cfg.DSN)
	}
}

func TestEnsureDSNReportsMissingParts(t *testing.T) {
	cfg := DBConfig{Host: "db.internal"}
	err := cfg.ensureDSN()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "PARTSHUB_DB_USER") {
		t.Fatalf("expected missing var named, got: %v", err)
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	app := AppConfig{Env: "Dev"}
	if !app.IsDev() || app.IsProd() {
		t.Fatal("expected dev environment")
	}
}

package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.Audit.DeadlineHours != 24 {
		t.Fatalf("expected deadline 24h, got %d", cfg.Audit.DeadlineHours)
	}
	if cfg.Audit.ApprovalQuorum != 2 {
		t.Fatalf("expected quorum 2, got %d", cfg.Audit.ApprovalQuorum)
	}
	if cfg.RateLimit.Auth.Window != 5*time.Minute || cfg.RateLimit.Auth.Requests != 10 {
		t.Fatalf("unexpected auth rule: %+v", cfg.RateLimit.Auth)
	}
	if cfg.JWT.TTL != 240*time.Hour {
		t.Fatalf("unexpected jwt ttl %v", cfg.JWT.TTL)
	}
}

func TestDSN(t *testing.T) {
	pg := DBConfig{Driver: "postgres", Host: "db", User: "u", Password: "p", Name: "n", Port: 5432, SSLMode: "disable", TimeZone: "UTC"}
	dsn, err := pg.DSN()
	if err != nil {
		t.Fatalf("postgres dsn: %v", err)
	}
	if dsn != "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC" {
		t.Fatalf("unexpected dsn %q", dsn)
	}

	lite := DBConfig{Driver: "sqlite", Path: "file.db"}
	if dsn, err := lite.DSN(); err != nil || dsn != "file.db" {
		t.Fatalf("sqlite dsn = %q, %v", dsn, err)
	}

	if _, err := (DBConfig{Driver: "sqlite"}).DSN(); err == nil {
		t.Fatal("expected error for sqlite without path")
	}
	if _, err := (DBConfig{Driver: "mysql"}).DSN(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

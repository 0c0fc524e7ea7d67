package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	yaml := `
server:
  addr: ":9090"
  read_timeout: 10s
database:
  dsn: ":memory:"
  seed: true
cache:
  backend: redis
  default_ttl: 90s
redis:
  addr: "redis.internal:6379"
  db: 2
report:
  enabled: true
  interval: 1h
  recipient: ops@example.test
  demo_mode: false
  smtp:
    host: smtp.example.test
    port: 2525
`
	cfg, err := Load(writeConfig(t, yaml))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want %q", cfg.Server.Addr, ":9090")
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("read_timeout = %v, want 10s", cfg.Server.ReadTimeout)
	}
	if !cfg.Database.Seed {
		t.Error("seed not set")
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.Cache.DefaultTTL != 90*time.Second {
		t.Errorf("default_ttl = %v, want 90s", cfg.Cache.DefaultTTL)
	}
	if cfg.Redis.Addr != "redis.internal:6379" || cfg.Redis.DB != 2 {
		t.Errorf("redis config = %+v", cfg.Redis)
	}
	if cfg.Report.Interval != time.Hour {
		t.Errorf("report interval = %v, want 1h", cfg.Report.Interval)
	}
	if cfg.Report.SMTP.Port != 2525 {
		t.Errorf("smtp port = %d, want 2525", cfg.Report.SMTP.Port)
	}
	if cfg.Report.DemoMode {
		t.Error("demo_mode should be disabled")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `{}`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Database.DSN != "marketd.db" {
		t.Errorf("dsn = %q, want marketd.db", cfg.Database.DSN)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Backend != "memory" {
		t.Errorf("cache defaults = %+v", cfg.Cache)
	}
	if cfg.Cache.DefaultTTL != 5*time.Minute {
		t.Errorf("default_ttl = %v, want 5m", cfg.Cache.DefaultTTL)
	}
	if !cfg.Report.DemoMode {
		t.Error("demo_mode should default to true")
	}
	if cfg.Report.SMTP.Port != 587 {
		t.Errorf("smtp port = %d, want 587", cfg.Report.SMTP.Port)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, "cache:\n  backend: memcached\n"))
	if err == nil {
		t.Fatal("expected error for unknown cache backend")
	}
}

func TestExpandEnv(t *testing.T) {
	// Cannot use t.Parallel() with t.Setenv
	t.Setenv("TEST_SMTP_PASSWORD", "hunter2")

	yaml := `
report:
  smtp:
    password: ${TEST_SMTP_PASSWORD}
`
	cfg, err := Load(writeConfig(t, yaml))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Report.SMTP.Password != "hunter2" {
		t.Errorf("password = %q, want expanded env value", cfg.Report.SMTP.Password)
	}

	// Unset variables stay verbatim.
	raw := expandEnv([]byte("key: ${DEFINITELY_NOT_SET_9Z}"))
	if string(raw) != "key: ${DEFINITELY_NOT_SET_9Z}" {
		t.Errorf("expandEnv = %q", raw)
	}
}

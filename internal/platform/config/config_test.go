package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", " Postgres ")
	t.Setenv("DATABASE_URL", "postgres://localhost/staffhive")
	t.Setenv("TOKEN_TTL", "2h")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageDriver != DriverPostgres || cfg.TokenTTL != 2*time.Hour || cfg.Addr != ":8080" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("APP_ADDR: \":9090\"\nRATE_LIMIT_PER_MINUTE: 5\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.RateLimitPerMinute != 5 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		StorageDriver:      DriverMemory,
		JWTSecret:          "secret",
		TokenTTL:           time.Hour,
		MaxBodyBytes:       4096,
		RateLimitPerMinute: 60,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("base config should be valid: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.StorageDriver = "sqlite" }},
		{"postgres without url", func(c *Config) { c.StorageDriver = DriverPostgres }},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }},
		{"memory in production", func(c *Config) { c.Environment = "production"; c.JWTSecret = "0123456789abcdef0123456789abcdef" }},
		{"email without host", func(c *Config) { c.EmailEnabled = true }},
		{"tiny body limit", func(c *Config) { c.MaxBodyBytes = 10 }},
	}
	for _, tc := range cases {
		cfg := base
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore dir: %v", err)
		}
	})
}

package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_DRIVER", "DB_NAME", "COLLECTION_NAME", "DATABASE_URL"} {
		os.Unsetenv(k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("expected default port 5000, got %s", cfg.Port)
	}
	if cfg.StoreDriver != DriverPostgres {
		t.Errorf("expected default driver postgres, got %s", cfg.StoreDriver)
	}
	if cfg.DBName != "patientsdb" {
		t.Errorf("expected default db name patientsdb, got %s", cfg.DBName)
	}
	if cfg.CollectionName != "patients" {
		t.Errorf("expected default collection patients, got %s", cfg.CollectionName)
	}
	if cfg.DBMaxConns != 10 {
		t.Errorf("expected default max conns 10, got %d", cfg.DBMaxConns)
	}
	if !cfg.AutoMigrate {
		t.Error("expected AUTO_MIGRATE to default to true")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("expected CORS origins [*], got %v", cfg.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "clinic")
	t.Setenv("COLLECTION_NAME", "ward_a")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.StoreDriver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %s", cfg.StoreDriver)
	}
	if cfg.DBName != "clinic" {
		t.Errorf("expected db name clinic, got %s", cfg.DBName)
	}
	if cfg.CollectionName != "ward_a" {
		t.Errorf("expected collection ward_a, got %s", cfg.CollectionName)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected 2 CORS origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoad_CORSOriginsTrimmed(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " http://a.test, http://b.test ,,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"http://a.test", "http://b.test"}
	if len(cfg.CORSOrigins) != len(want) {
		t.Fatalf("expected %v, got %q", want, cfg.CORSOrigins)
	}
	for i := range want {
		if cfg.CORSOrigins[i] != want[i] {
			t.Errorf("origin %d: expected %q, got %q", i, want[i], cfg.CORSOrigins[i])
		}
	}
}

func TestLoad_DefaultEnvIsDev(t *testing.T) {
	os.Unsetenv("ENV")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsDev() {
		t.Errorf("expected default ENV to be development, got %q", cfg.Env)
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store driver")
	}
}

func TestConfig_Validate(t *testing.T) {
	base := Config{
		Port:           "5000",
		StoreDriver:    DriverMemory,
		DBName:         "patientsdb",
		DBSchema:       "public",
		CollectionName: "patients",
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"collection with dash", func(c *Config) { c.CollectionName = "bad-name" }, true},
		{"collection with space", func(c *Config) { c.CollectionName = "a b" }, true},
		{"schema injection", func(c *Config) { c.DBSchema = "public; DROP TABLE x" }, true},
		{"empty db name", func(c *Config) { c.DBName = "" }, true},
		{"postgres without url", func(c *Config) { c.StoreDriver = DriverPostgres }, true},
		{"empty port", func(c *Config) { c.Port = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

func TestLoadClient(t *testing.T) {
	t.Setenv("PATIENT_API_URL", "http://api.test:5000/")
	t.Setenv("CLIENT_TIMEOUT", "3s")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://api.test:5000" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.APIURL)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %s", cfg.Timeout)
	}
}

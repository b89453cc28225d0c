package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Fatalf("expected sqlite backend by default, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Key != "todomvc-plus" {
		t.Fatalf("expected default storage key, got %q", cfg.Storage.Key)
	}
	if cfg.Storage.DefaultProjectID != "all" {
		t.Fatalf("expected default project id 'all', got %q", cfg.Storage.DefaultProjectID)
	}
	if cfg.App.IDScheme != IDSchemeUUID {
		t.Fatalf("expected uuid id scheme, got %q", cfg.App.IDScheme)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("STORAGE_DEFAULT_PROJECT_ID", "inbox")
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Fatalf("expected memory backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.DefaultProjectID != "inbox" {
		t.Fatalf("expected inbox default, got %q", cfg.Storage.DefaultProjectID)
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("expected port 9999, got %d", cfg.Server.Port)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todoplus.yaml")
	content := "storage:\n  backend: file\n  dir: state\napp:\n  id_scheme: timestamp\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != BackendFile || cfg.Storage.Dir != "state" {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.App.IDScheme != IDSchemeTimestamp {
		t.Fatalf("expected timestamp id scheme, got %q", cfg.App.IDScheme)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"backend":    {"STORAGE_BACKEND", "etcd"},
		"project id": {"STORAGE_DEFAULT_PROJECT_ID", "p1"},
		"id scheme":  {"APP_ID_SCHEME", "serial"},
		"port":       {"SERVER_PORT", "70000"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			_, err := Load("")
			if err == nil {
				t.Fatalf("expected error for %s=%s", env[0], env[1])
			}
			if !strings.Contains(err.Error(), "invalid configuration") {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{Path: "x.db", Host: "h", Port: 1, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	if got := cfg.GetDSN(BackendSQLite); got != "x.db?_pragma=busy_timeout(5000)" {
		t.Fatalf("sqlite dsn: %q", got)
	}
	cfg.Path = "file:x.db?mode=rwc"
	if got := cfg.GetDSN(BackendSQLite); got != "file:x.db?mode=rwc&_pragma=busy_timeout(5000)" {
		t.Fatalf("sqlite dsn with params: %q", got)
	}
	want := "host=h port=1 user=u password=p dbname=n sslmode=disable"
	if got := cfg.GetDSN(BackendPostgres); got != want {
		t.Fatalf("postgres dsn: %q", got)
	}
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/agent-console/internal/config"
)

const minimal = `
[database]
driver = "memory"
`

func parse(t *testing.T, doc string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return cfg
}

func TestFinalize_Defaults(t *testing.T) {
	cfg := parse(t, minimal)
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Database.Lock != config.LockLocal {
		t.Errorf("Lock = %q, want %q", cfg.Database.Lock, config.LockLocal)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("BasePath = %q", cfg.API.BasePath)
	}
	if cfg.API.OwnerHeader != "X-Owner-ID" {
		t.Errorf("OwnerHeader = %q", cfg.API.OwnerHeader)
	}
	if cfg.API.MaxBodyBytes() != 1_000_000 {
		t.Errorf("MaxBodyBytes() = %d, want 1000000", cfg.API.MaxBodyBytes())
	}
	if cfg.API.Pagination.DefaultPageSize != 20 {
		t.Errorf("DefaultPageSize = %d", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.Completion.Enabled {
		t.Error("completion enabled by default")
	}
	if cfg.Completion.TimeoutDuration() != 60*time.Second {
		t.Errorf("completion timeout = %v", cfg.Completion.TimeoutDuration())
	}
}

func TestFinalize_EmbeddedDatabaseFields(t *testing.T) {
	cfg := parse(t, `
[database]
driver = "postgres"
host = "db"
name = "console"
user = "svc"
lock = "advisory"
auto_migrate = true
`)
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Database.Host != "db" || cfg.Database.Name != "console" || cfg.Database.User != "svc" {
		t.Errorf("connection fields not decoded: %+v", cfg.Database.Config)
	}
	if cfg.Database.Lock != config.LockAdvisory {
		t.Errorf("Lock = %q", cfg.Database.Lock)
	}
	if !cfg.Database.AutoMigrate {
		t.Error("AutoMigrate not decoded")
	}
}

func TestFinalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"shutdown timeout", minimal + "\nshutdown_timeout = \"soon\"\n"},
		{"unknown lock", "[database]\ndriver = \"memory\"\nlock = \"zookeeper\"\n"},
		{"advisory on memory", "[database]\ndriver = \"memory\"\nlock = \"advisory\"\n"},
		{"postgres without name", "[database]\ndriver = \"postgres\"\nuser = \"svc\"\n"},
		{"body size", minimal + "\n[api]\nmax_body_size = \"lots\"\n"},
		{"base path", minimal + "\n[api]\nbase_path = \"api/\"\n"},
		{"server port", minimal + "\n[server]\nport = 70000\n"},
		{"log level", minimal + "\n[logging]\nlevel = \"loud\"\n"},
		{"completion without endpoint", minimal + "\n[completion]\nenabled = true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := parse(t, tt.doc)
			if err := cfg.Finalize(); err == nil {
				t.Error("Finalize() succeeded, want error")
			}
		})
	}
}

func TestFinalize_EnvOverrides(t *testing.T) {
	t.Setenv(config.EnvServerPort, "9191")
	t.Setenv(config.EnvAPIMaxBodySize, "2MB")
	t.Setenv(config.EnvAPIOwnerHeader, "X-User")
	t.Setenv("COMPLETION_ENABLED", "true")
	t.Setenv("COMPLETION_BASE_URL", "http://llm:8000/v1")

	cfg := parse(t, minimal)
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("Port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.API.MaxBodyBytes() != 2_000_000 {
		t.Errorf("MaxBodyBytes() = %d, want 2000000", cfg.API.MaxBodyBytes())
	}
	if cfg.API.OwnerHeader != "X-User" {
		t.Errorf("OwnerHeader = %q", cfg.API.OwnerHeader)
	}
	if !cfg.Completion.Enabled || cfg.Completion.BaseURL != "http://llm:8000/v1" {
		t.Errorf("completion = %+v", cfg.Completion)
	}
}

func TestMerge(t *testing.T) {
	base := parse(t, `
version = "1.0.0"

[server]
port = 8080
read_timeout = "30s"

[database]
driver = "postgres"
name = "console"

[completion]
enabled = true
model = "base"
`)
	overlay := parse(t, `
[server]
port = 9090

[database]
lock = "advisory"

[completion]
model = "overlay"
`)

	base.Merge(overlay)

	if base.Version != "1.0.0" {
		t.Errorf("Version = %q (should not change)", base.Version)
	}
	if base.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", base.Server.Port)
	}
	if base.Server.ReadTimeout != "30s" {
		t.Errorf("ReadTimeout = %q (should not change)", base.Server.ReadTimeout)
	}
	if base.Database.Name != "console" || base.Database.Lock != "advisory" {
		t.Errorf("database = %+v", base.Database)
	}
	if !base.Completion.Enabled {
		t.Error("overlay without enabled disabled completion")
	}
	if base.Completion.Model != "overlay" {
		t.Errorf("Model = %q", base.Completion.Model)
	}
}

func TestLoad_WithOverlay(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(config.BaseConfigFile, minimal)
	write("config.test.toml", "shutdown_timeout = \"60s\"\n\n[server]\nport = 9090\n")

	t.Setenv(config.EnvServiceEnv, "test")

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.ShutdownTimeoutDuration() != time.Minute {
		t.Errorf("ShutdownTimeout = %v, want 1m", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Env() != "test" {
		t.Errorf("Env() = %q", cfg.Env())
	}
}

func TestLoad_RepositoryConfig(t *testing.T) {
	t.Setenv(config.EnvServiceEnv, "")

	cfg, err := config.Load("../..")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Driver = %q", cfg.Database.Driver)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"localhost", 3000, "localhost:3000"},
		{"::1", 8080, "[::1]:8080"},
	}
	for _, tt := range tests {
		cfg := &config.ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}

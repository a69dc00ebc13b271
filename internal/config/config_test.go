package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Store.Backend != BackendJSON {
		t.Errorf("default backend = %q, want %q", cfg.Store.Backend, BackendJSON)
	}
	if cfg.Store.FilePath() != ".contacts/contacts.json" {
		t.Errorf("default path = %q, want %q", cfg.Store.FilePath(), ".contacts/contacts.json")
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("default addr = %q, want %q", cfg.Server.Addr, "127.0.0.1:8080")
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("default read timeout = %v, want %v", cfg.Server.ReadTimeout, 10*time.Second)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config Validate() error = %v", err)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	cfgPath := writeConfig(t, `
store:
  backend: sqlite
  path: /tmp/contacts.db
server:
  addr: ":9090"
  read_timeout: 3s
log:
  mode: production
  level: debug
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Backend != BackendSQLite {
		t.Errorf("backend = %q, want %q", cfg.Store.Backend, BackendSQLite)
	}
	if cfg.Store.Path != "/tmp/contacts.db" {
		t.Errorf("path = %q, want %q", cfg.Store.Path, "/tmp/contacts.db")
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want %q", cfg.Server.Addr, ":9090")
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("read timeout = %v, want %v", cfg.Server.ReadTimeout, 3*time.Second)
	}
	if cfg.Log.Mode != "production" || cfg.Log.Level != "debug" {
		t.Errorf("log = %+v, want production/debug", cfg.Log)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("Load(missing) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfgPath := writeConfig(t, "{{invalid yaml")

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("Load(invalid YAML) should return error")
	}
}

func TestLoad_UnknownField(t *testing.T) {
	cfgPath := writeConfig(t, `
store:
  backnd: sqlite
`)

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("Load() should return error for unknown field 'backnd'")
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	cfgPath := writeConfig(t, `
store:
  backend: memory
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("backend = %q, want %q", cfg.Store.Backend, BackendMemory)
	}
	// Unset fields should retain defaults.
	if cfg.Store.Path != "" {
		t.Errorf("path = %q, want unset", cfg.Store.Path)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoad_LayeredPriority(t *testing.T) {
	// Given a user config that sets backend and addr, and a project config that overrides addr
	userCfg := writeConfig(t, `
store:
  backend: sqlite
  path: /home/me/contacts.db
server:
  addr: ":7000"
`)
	projectCfg := writeConfig(t, `
server:
  addr: ":7001"
`)

	// When both layers are loaded
	cfg, err := LoadLayered(userCfg, projectCfg)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}

	// Then the backend comes from user config
	if cfg.Store.Backend != BackendSQLite {
		t.Errorf("backend = %q, want %q", cfg.Store.Backend, BackendSQLite)
	}
	// And addr from project config
	if cfg.Server.Addr != ":7001" {
		t.Errorf("addr = %q, want %q", cfg.Server.Addr, ":7001")
	}
	// And the log level keeps its default
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want default %q", cfg.Log.Level, "info")
	}
}

func TestLoad_CommentOnlyFile(t *testing.T) {
	cfgPath := writeConfig(t, "# just a comment\n")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(comment-only) error = %v", err)
	}
	if want := DefaultConfig(); *cfg != want {
		t.Errorf("Load(comment-only) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfgPath := writeConfig(t, "")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	if want := DefaultConfig(); *cfg != want {
		t.Errorf("Load(empty) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoadLayered_AllMissing(t *testing.T) {
	cfg, err := LoadLayered("/no/user.yaml", "/no/project.yaml")
	if err != nil {
		t.Fatalf("LoadLayered(all missing) error = %v", err)
	}
	if want := DefaultConfig(); *cfg != want {
		t.Errorf("got %+v, want defaults %+v", *cfg, want)
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		envs    map[string]string
		wantErr bool
		check   func(*testing.T, Config)
	}{
		{
			name: "CONTACTS_STORE_BACKEND overrides backend",
			envs: map[string]string{"CONTACTS_STORE_BACKEND": "memory"},
			check: func(t *testing.T, c Config) {
				if c.Store.Backend != BackendMemory {
					t.Errorf("backend = %q, want %q", c.Store.Backend, BackendMemory)
				}
			},
		},
		{
			name: "CONTACTS_STORE_PATH overrides path",
			envs: map[string]string{"CONTACTS_STORE_PATH": "/data/c.json"},
			check: func(t *testing.T, c Config) {
				if c.Store.Path != "/data/c.json" {
					t.Errorf("path = %q, want %q", c.Store.Path, "/data/c.json")
				}
			},
		},
		{
			name: "CONTACTS_SERVER_ADDR overrides addr",
			envs: map[string]string{"CONTACTS_SERVER_ADDR": ":1234"},
			check: func(t *testing.T, c Config) {
				if c.Server.Addr != ":1234" {
					t.Errorf("addr = %q, want %q", c.Server.Addr, ":1234")
				}
			},
		},
		{
			name: "CONTACTS_SERVER_READ_TIMEOUT overrides read timeout",
			envs: map[string]string{"CONTACTS_SERVER_READ_TIMEOUT": "45s"},
			check: func(t *testing.T, c Config) {
				if c.Server.ReadTimeout != 45*time.Second {
					t.Errorf("read timeout = %v, want %v", c.Server.ReadTimeout, 45*time.Second)
				}
			},
		},
		{
			name: "CONTACTS_LOG_LEVEL overrides level",
			envs: map[string]string{"CONTACTS_LOG_LEVEL": "debug"},
			check: func(t *testing.T, c Config) {
				if c.Log.Level != "debug" {
					t.Errorf("level = %q, want %q", c.Log.Level, "debug")
				}
			},
		},
		{
			name:    "invalid CONTACTS_SERVER_READ_TIMEOUT returns error",
			envs:    map[string]string{"CONTACTS_SERVER_READ_TIMEOUT": "soon"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			err := cfg.ApplyEnv()

			if tt.wantErr {
				if err == nil {
					t.Fatal("ApplyEnv() should return error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnv() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "memory backend without path", modify: func(c *Config) { c.Store.Backend = BackendMemory; c.Store.Path = "" }},
		{name: "unknown backend", modify: func(c *Config) { c.Store.Backend = "postgres" }, wantErr: true},
		{name: "json backend without path", modify: func(c *Config) { c.Store.Path = "" }},
		{name: "sqlite backend without path", modify: func(c *Config) { c.Store.Backend = BackendSQLite; c.Store.Path = "" }},
		{name: "empty addr", modify: func(c *Config) { c.Server.Addr = "" }, wantErr: true},
		{name: "zero read timeout", modify: func(c *Config) { c.Server.ReadTimeout = 0 }, wantErr: true},
		{name: "unknown log mode", modify: func(c *Config) { c.Log.Mode = "verbose" }, wantErr: true},
		{name: "unknown log level", modify: func(c *Config) { c.Log.Level = "trace" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStoreFilePath(t *testing.T) {
	tests := []struct {
		name  string
		store Store
		want  string
	}{
		{"json default", Store{Backend: BackendJSON}, ".contacts/contacts.json"},
		{"sqlite default", Store{Backend: BackendSQLite}, ".contacts/contacts.db"},
		{"memory has no file", Store{Backend: BackendMemory}, ""},
		{"explicit path wins", Store{Backend: BackendSQLite, Path: "/data/c.db"}, "/data/c.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.store.FilePath(); got != tt.want {
				t.Errorf("FilePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_BackendOnlyDerivesPath(t *testing.T) {
	// Given: a config that switches to sqlite without naming a path
	cfgPath := writeConfig(t, `
store:
  backend: sqlite
`)

	// When: it is loaded
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Then: the database file is the sqlite default, not the JSON file
	if got := cfg.Store.FilePath(); got != ".contacts/contacts.db" {
		t.Errorf("FilePath() = %q, want %q", got, ".contacts/contacts.db")
	}
}

package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "data/vaultmusic.db" {
			t.Errorf("expected database path data/vaultmusic.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}

		if config.Sync.SearchLimit != 10 {
			t.Errorf("expected search limit 10, got %d", config.Sync.SearchLimit)
		}

		if config.Sync.PlaybackLimit != 20 {
			t.Errorf("expected playback limit 20, got %d", config.Sync.PlaybackLimit)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[server]
host = "127.0.0.1"
port = 8080
static_dir = "/srv/vaultmusic"
rate_limit = 5.0
rate_burst = 10

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[sync]
search_limit = 5
playback_limit = 15
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Addr() != "127.0.0.1:8080" {
			t.Errorf("expected addr 127.0.0.1:8080, got %s", config.Addr())
		}

		if config.Sync.PlaybackLimit != 15 {
			t.Errorf("expected playback limit 15, got %d", config.Sync.PlaybackLimit)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error loading nonexistent config")
		}
	})

	t.Run("EnvOverride", func(t *testing.T) {
		t.Setenv("VAULT_DB_PATH", "/env/override.db")
		t.Setenv("VAULT_PORT", "9090")

		config := DefaultConfig()

		if config.Database.Path != "/env/override.db" {
			t.Errorf("expected env override for database path, got %s", config.Database.Path)
		}
		if config.Server.Port != 9090 {
			t.Errorf("expected env override for port, got %d", config.Server.Port)
		}
	})
}

package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./lectern.db" {
			t.Errorf("expected database path ./lectern.db, got %s", config.Database.Path)
		}

		if config.CMS.BaseURL != "http://localhost:8000" {
			t.Errorf("expected cms base URL http://localhost:8000, got %s", config.CMS.BaseURL)
		}

		if config.Upload.RateLimit != 5.0 {
			t.Errorf("expected upload rate limit 5.0, got %f", config.Upload.RateLimit)
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

		testConfig := `[cms]
base_url = "https://cms.example.edu"
api_token = "test_token"
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[upload]
rate_limit = 2.5
default_folder = "imports"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.CMS.BaseURL != "https://cms.example.edu" {
			t.Errorf("expected cms base URL https://cms.example.edu, got %s", config.CMS.BaseURL)
		}
		if config.Database.MaxOpenConns != 20 {
			t.Errorf("expected max open conns 20, got %d", config.Database.MaxOpenConns)
		}
		if config.Upload.DefaultFolder != "imports" {
			t.Errorf("expected default folder imports, got %s", config.Upload.DefaultFolder)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error loading missing config file")
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("LECTERN_CMS_BASE_URL", "https://override.example.edu")

		config := DefaultConfig()
		if config.CMS.BaseURL != "https://override.example.edu" {
			t.Errorf("expected env override to win, got %s", config.CMS.BaseURL)
		}
	})
}

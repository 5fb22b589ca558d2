package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Parses A Complete File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[credentials.spotify]
client_id = "id123"
client_secret = "secret456"

[database]
path = "custom.db"
max_open_conns = 3
max_idle_conns = 1

[analysis]
bucket_width = 25
top_artists = 5
page_size = 50
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.Credentials.Spotify.ClientID != "id123" {
			t.Errorf("unexpected client id %q", config.Credentials.Spotify.ClientID)
		}
		if config.Database.Path != "custom.db" || config.Database.MaxOpenConns != 3 {
			t.Errorf("unexpected database config: %+v", config.Database)
		}
		if config.Analysis.BucketWidth != 25 || config.Analysis.TopArtists != 5 || config.Analysis.PageSize != 50 {
			t.Errorf("unexpected analysis config: %+v", config.Analysis)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("Malformed TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[credentials\nbroken"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Analysis.BucketWidth != 10 {
		t.Errorf("expected default bucket width 10, got %d", config.Analysis.BucketWidth)
	}
	if config.Analysis.TopArtists != 10 {
		t.Errorf("expected default top artists 10, got %d", config.Analysis.TopArtists)
	}
	if config.Analysis.PageSize != 100 {
		t.Errorf("expected default page size 100, got %d", config.Analysis.PageSize)
	}
	if config.Database.Path != "statify.db" {
		t.Errorf("unexpected default database path %q", config.Database.Path)
	}
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("Writes The Example Config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("created config does not parse: %v", err)
		}
		if config.Analysis.BucketWidth != 10 {
			t.Errorf("created config differs from defaults: %+v", config.Analysis)
		}
	})

	t.Run("Refuses To Overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected an error for an existing config file")
		}
	})
}

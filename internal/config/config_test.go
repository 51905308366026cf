package config

import (
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("http.addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.Data.Dir != "data" {
		t.Errorf("data.dir = %q, want data", cfg.Data.Dir)
	}
	if cfg.Seed.URL == "" || cfg.Seed.ImageBaseURL == "" {
		t.Error("seed URLs must have defaults")
	}
	if cfg.Shell.APIURL != "http://127.0.0.1:8080" {
		t.Errorf("shell.api_url = %q, want http://127.0.0.1:8080", cfg.Shell.APIURL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOOKAPP_HTTP_ADDR", ":9090")
	t.Setenv("BOOKAPP_DATA_DIR", "/var/lib/bookapp")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("http.addr = %q, want :9090", cfg.HTTP.Addr)
	}
	if got, want := cfg.BooksFile(), filepath.Join("/var/lib/bookapp", "books.json"); got != want {
		t.Errorf("BooksFile() = %q, want %q", got, want)
	}
	if got, want := cfg.UsersFile(), filepath.Join("/var/lib/bookapp", "users.json"); got != want {
		t.Errorf("UsersFile() = %q, want %q", got, want)
	}
}

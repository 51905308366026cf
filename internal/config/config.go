package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultSeedURL      = "https://raw.githubusercontent.com/benoitvallon/100-best-books/master/books.json"
	defaultImageBaseURL = "https://raw.githubusercontent.com/benoitvallon/100-best-books/master/static"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	Data struct {
		Dir string
	}
	Seed struct {
		URL          string
		ImageBaseURL string
	}
	Log struct {
		File string
	}
	Shell struct {
		APIURL string
	}
}

// Load reads config from environment (BOOKAPP_ prefix) and optional bookapp.yaml.
// Every key has a working default, so a bare `bookapp serve` runs out of the box.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKAPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("bookapp")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("data.dir", "data")
	v.SetDefault("seed.url", defaultSeedURL)
	v.SetDefault("seed.image_base_url", defaultImageBaseURL)
	v.SetDefault("log.file", filepath.Join("logs", "app.log"))
	v.SetDefault("shell.api_url", "http://127.0.0.1:8080")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.Data.Dir = v.GetString("data.dir")
	cfg.Seed.URL = v.GetString("seed.url")
	cfg.Seed.ImageBaseURL = v.GetString("seed.image_base_url")
	cfg.Log.File = v.GetString("log.file")
	cfg.Shell.APIURL = v.GetString("shell.api_url")

	return cfg, nil
}

// BooksFile is the path of the catalog's backing file.
func (c *Config) BooksFile() string { return filepath.Join(c.Data.Dir, "books.json") }

// UsersFile is the path of the credential store's backing file.
func (c *Config) UsersFile() string { return filepath.Join(c.Data.Dir, "users.json") }

// MetadataFile tracks seed-data bootstrap state.
func (c *Config) MetadataFile() string { return filepath.Join(c.Data.Dir, "metadata.json") }

// ImagesDir holds downloaded cover images.
func (c *Config) ImagesDir() string { return filepath.Join(c.Data.Dir, "images") }

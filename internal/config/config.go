package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type Config struct {
	BotToken       string
	Env            string
	LogLevel       string
	StorageBackend string
	DataFile       string
	PostgresDSN    string
	DefaultLang    string
	Premium        bool
}

// Load reads configuration from the environment, with a .env file as
// fallback for local runs.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:       os.Getenv("BOT_TOKEN"),
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StorageBackend: getEnv("STORAGE_BACKEND", BackendFile),
		DataFile:       getEnv("DATA_FILE", "data/user_data.json"),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		DefaultLang:    getEnv("DEFAULT_LANG", "ru"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.StorageBackend != BackendFile && c.StorageBackend != BackendPostgres {
		return errors.New("STORAGE_BACKEND must be one of: file, postgres")
	}
	if c.StorageBackend == BackendPostgres && c.PostgresDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.StorageBackend == BackendFile && c.DataFile == "" {
		return errors.New("file storage requires DATA_FILE to be set")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.DefaultLang != "ru" && c.DefaultLang != "en" {
		return errors.New("DEFAULT_LANG must be one of: ru, en")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

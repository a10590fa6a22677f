// Package config loads application settings from the environment, with an
// optional .env file for local development.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime settings for the server.
type Config struct {
	Addr           string
	DBPath         string
	SecretKey      string
	TokenDuration  time.Duration
	DisableReqLogs bool
}

// Load reads configuration with sane development defaults. Environment
// variables (prefixed EDUVISION_) override defaults; a .env file is loaded
// first if present.
func Load() *Config {
	// load .env if it exists (ignore if it does not)
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("config: loading .env: %v", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("EDUVISION")
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("db_path", "./data/expenses.db")
	v.SetDefault("secret_key", "dev-only-secret-change-me")
	v.SetDefault("token_duration", 24*time.Hour)
	v.SetDefault("disable_request_logs", false)

	return &Config{
		Addr:           v.GetString("addr"),
		DBPath:         v.GetString("db_path"),
		SecretKey:      v.GetString("secret_key"),
		TokenDuration:  v.GetDuration("token_duration"),
		DisableReqLogs: v.GetBool("disable_request_logs"),
	}
}

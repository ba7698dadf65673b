package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL      string
	Port             string
	IsProduction     bool
	EnableDBCheck    bool
	RateLimit        string
	DuesSchedulePath string
	HomeCountry      string
}

// LoadConfig loads configuration from environment variables and .env file if
// present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("DUES_SCHEDULE_PATH", "")
	viper.SetDefault("HOME_COUNTRY", "US")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:      viper.GetString("PGSQL_URL"),
		Port:             viper.GetString("PORT"),
		IsProduction:     viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:    viper.GetBool("ENABLE_DB_CHECK"),
		RateLimit:        viper.GetString("RATE_LIMIT"),
		DuesSchedulePath: viper.GetString("DUES_SCHEDULE_PATH"),
		HomeCountry:      viper.GetString("HOME_COUNTRY"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.DuesSchedulePath == "" {
		log.Println("Warning: DUES_SCHEDULE_PATH not set. Using the compiled-in dues schedule.")
	}

	return cfg, nil
}

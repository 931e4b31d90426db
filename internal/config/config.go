package config

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	AppEnv       string
	ServerPort   int
	DatabasePath string
	UploadsPath  string
	LogLevel     string
}

// Load reads configuration from the environment, with an optional .env
// file for local development. Environment variables always win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment only")
	}

	viper.AutomaticEnv()
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("DATABASE_PATH", "./inkwell.db")
	viper.SetDefault("UPLOADS_PATH", "./uploads")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("APP_ENV", "development")

	return &Config{
		AppEnv:       viper.GetString("APP_ENV"),
		ServerPort:   viper.GetInt("PORT"),
		DatabasePath: viper.GetString("DATABASE_PATH"),
		UploadsPath:  viper.GetString("UPLOADS_PATH"),
		LogLevel:     viper.GetString("LOG_LEVEL"),
	}, nil
}

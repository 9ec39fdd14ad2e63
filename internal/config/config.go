package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds settings for both the mock API server and the chat client.
// Values come from a .env file when present, otherwise from environment
// variables, otherwise from the defaults below.
type Config struct {
	AppPort      int    `mapstructure:"APP_PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	StaticDir    string `mapstructure:"STATIC_DIR"`
	NLQURL       string `mapstructure:"NLQ_URL"`
	ServerURL    string `mapstructure:"SERVER_URL"`
	SessionPath  string `mapstructure:"SESSION_PATH"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
}

func Load() (*Config, error) {
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("DATABASE_PATH", "data/db.json")
	viper.SetDefault("STATIC_DIR", "dist/somni-frontend")
	viper.SetDefault("NLQ_URL", "http://localhost:5000")
	viper.SetDefault("SERVER_URL", "http://localhost:8080")
	viper.SetDefault("SESSION_PATH", "data/session.json")
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

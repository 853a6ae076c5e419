// Package config loads server configuration from an optional YAML file,
// environment variables (SOFRA_ prefix), and defaults.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting for the server.
type Config struct {
	Port      int           `mapstructure:"port"`
	DBPath    string        `mapstructure:"db_path"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`

	KafkaEnabled bool   `mapstructure:"kafka_enabled"`
	KafkaBrokers string `mapstructure:"kafka_brokers"`
	KafkaTopic   string `mapstructure:"kafka_topic"`

	SeedRestaurants int `mapstructure:"seed_restaurants"`
	SeedMenuItems   int `mapstructure:"seed_menu_items"`
}

// Load reads configuration. cfgFile may be empty, in which case a
// sofra.yaml in the working directory is used when present.
func Load(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("sofra")
	}

	viper.SetEnvPrefix("SOFRA")
	viper.AutomaticEnv()

	viper.SetDefault("port", 8080)
	viper.SetDefault("db_path", "./data/sofra.db")
	viper.SetDefault("jwt_secret", "dev-only-secret-change-me")
	viper.SetDefault("token_ttl", 24*time.Hour)
	viper.SetDefault("kafka_enabled", false)
	viper.SetDefault("kafka_brokers", "localhost:9092")
	viper.SetDefault("kafka_topic", "order.placed")
	viper.SetDefault("seed_restaurants", 8)
	viper.SetDefault("seed_menu_items", 12)

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	// DSN selects postgres when set; otherwise the service runs on a local
	// sqlite file at SQLitePath.
	DSN        string
	SQLitePath string
}

type OverpassConfig struct {
	URL     string
	Timeout time.Duration
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Overpass    OverpassConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:        v.GetString("DB_DSN"),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
		},
		Overpass: OverpassConfig{
			URL:     v.GetString("OVERPASS_URL"),
			Timeout: v.GetDuration("OVERPASS_TIMEOUT"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.DB.SQLitePath == "" {
		cfg.DB.SQLitePath = "planner.db"
	}
	if cfg.Overpass.URL == "" {
		cfg.Overpass.URL = "https://overpass-api.de/api/interpreter"
	}
	if cfg.Overpass.Timeout == 0 {
		cfg.Overpass.Timeout = 30 * time.Second
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" && cfg.DB.SQLitePath == "" {
		return fmt.Errorf("either DB_DSN or DB_SQLITE_PATH is required")
	}
	return nil
}

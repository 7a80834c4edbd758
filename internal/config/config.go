package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName       string `mapstructure:"app_name"`
	Env           string `mapstructure:"app_env"`
	LogLevel      string `mapstructure:"log_level"`
	RoomServerURL string `mapstructure:"room_server_url"`
	HTTPOrigin    string `mapstructure:"http_origin"`
	RequestsFile  string `mapstructure:"requests_file"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "room-signal")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("room_server_url", "https://appr.tc")
	v.SetDefault("http_origin", "https://appr.tc")
	v.SetDefault("requests_file", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.RoomServerURL = strings.TrimRight(strings.TrimSpace(cfg.RoomServerURL), "/")
	cfg.HTTPOrigin = strings.TrimSpace(cfg.HTTPOrigin)
	cfg.RequestsFile = strings.TrimSpace(cfg.RequestsFile)

	if err := validateHTTPURL(cfg.RoomServerURL); err != nil {
		return nil, fmt.Errorf("invalid room_server_url: %w", err)
	}
	if err := validateHTTPURL(cfg.HTTPOrigin); err != nil {
		return nil, fmt.Errorf("invalid http_origin: %w", err)
	}

	return &cfg, nil
}

// validateHTTPURL requires an absolute http(s) URL with a host.
func validateHTTPURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("value is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme %q is not http or https", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is missing")
	}
	return nil
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	JWT struct {
		Secret     string
		AccessTTL  time.Duration
		RefreshTTL time.Duration
	}
	Alias struct {
		Length      int
		MaxLength   int
		MaxAttempts int
		Saturation  float64
	}
}

// Load reads config from environment (BOOKMARKD_ prefix) and optional bookmarkd.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKMARKD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("bookmarkd")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("jwt.access_ttl", "15m")
	v.SetDefault("jwt.refresh_ttl", "720h")
	v.SetDefault("alias.length", 3)
	v.SetDefault("alias.max_length", 8)
	v.SetDefault("alias.max_attempts", 10)
	v.SetDefault("alias.saturation", 0.5)

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.JWT.Secret = v.GetString("jwt.secret")
	cfg.Alias.Length = v.GetInt("alias.length")
	cfg.Alias.MaxLength = v.GetInt("alias.max_length")
	cfg.Alias.MaxAttempts = v.GetInt("alias.max_attempts")
	cfg.Alias.Saturation = v.GetFloat64("alias.saturation")

	accessTTL, err := time.ParseDuration(v.GetString("jwt.access_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKMARKD_JWT_ACCESS_TTL: %w", err)
	}
	cfg.JWT.AccessTTL = accessTTL

	refreshTTL, err := time.ParseDuration(v.GetString("jwt.refresh_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKMARKD_JWT_REFRESH_TTL: %w", err)
	}
	cfg.JWT.RefreshTTL = refreshTTL

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("BOOKMARKD_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("BOOKMARKD_DB_DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("BOOKMARKD_JWT_SECRET is required")
	}
	if cfg.Alias.Length < 1 || cfg.Alias.Length > cfg.Alias.MaxLength {
		return nil, fmt.Errorf("BOOKMARKD_ALIAS_LENGTH must be between 1 and %d", cfg.Alias.MaxLength)
	}
	if cfg.Alias.Saturation <= 0 || cfg.Alias.Saturation >= 1 {
		return nil, fmt.Errorf("BOOKMARKD_ALIAS_SATURATION must be between 0 and 1")
	}

	return cfg, nil
}

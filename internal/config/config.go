package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	AppBaseURL        string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	NATSEventsSubject string
	JWTSecret         string
	SendGridAPIKey    string
	MailFromEmail     string
	ViewCacheTTL      time.Duration
	PointScale        float64
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HIRELENS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "HireLens API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.base_url", "http://localhost:3000")
	v.SetDefault("nats.events_subject", "hirelens.candidate.events")
	v.SetDefault("view.cache_ttl", "5m")
	v.SetDefault("point.scale", 1000.0)
	v.SetDefault("mail.from_email", "noreply@hirelens.dev")

	ttlString := v.GetString("view.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid view cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		AppBaseURL:        strings.TrimRight(v.GetString("app.base_url"), "/"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		NATSEventsSubject: v.GetString("nats.events_subject"),
		JWTSecret:         v.GetString("jwt.secret"),
		SendGridAPIKey:    v.GetString("sendgrid.api_key"),
		MailFromEmail:     v.GetString("mail.from_email"),
		ViewCacheTTL:      ttl,
		PointScale:        v.GetFloat64("point.scale"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.PointScale <= 0 {
		cfg.PointScale = 1000
	}

	return cfg, nil
}

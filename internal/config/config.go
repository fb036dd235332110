package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the challenges API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	CORSOrigins       string
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	RedisURL          string
	NATSURL           string
	JWTSecret         string
	StandingsCacheTTL time.Duration
	RankingInterval   time.Duration
	RankingBatchSize  int
	RankingEnabled    bool
	SubmitRateMax     int
	SubmitRateWindow  time.Duration
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
	v.SetEnvPrefix("CHALLENGES")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Challenges API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cors.origins", "*")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("standings.cache_ttl", "30s")
	v.SetDefault("ranking.interval", "15s")
	v.SetDefault("ranking.batch_size", 500)
	v.SetDefault("ranking.enabled", true)
	v.SetDefault("submit.rate_max", 30)
	v.SetDefault("submit.rate_window", "1m")

	cacheTTL, err := time.ParseDuration(v.GetString("standings.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid standings cache ttl: %w", err)
	}

	rankingInterval, err := time.ParseDuration(v.GetString("ranking.interval"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ranking interval: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("submit.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid submit rate window: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		CORSOrigins:       v.GetString("cors.origins"),
		DatabaseURL:       v.GetString("database.url"),
		DBMaxOpenConns:    v.GetInt("database.max_open_conns"),
		DBMaxIdleConns:    v.GetInt("database.max_idle_conns"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		StandingsCacheTTL: cacheTTL,
		RankingInterval:   rankingInterval,
		RankingBatchSize:  v.GetInt("ranking.batch_size"),
		RankingEnabled:    v.GetBool("ranking.enabled"),
		SubmitRateMax:     v.GetInt("submit.rate_max"),
		SubmitRateWindow:  rateWindow,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.RankingBatchSize <= 0 {
		cfg.RankingBatchSize = 500
	}

	return cfg, nil
}

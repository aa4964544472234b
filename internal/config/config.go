package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	Currency  string `mapstructure:"currency"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	MaxRetries   int    `mapstructure:"max_retries"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type OutboxConfig struct {
	Channel      string `mapstructure:"channel"`
	BatchSize    int    `mapstructure:"batch_size"`
	PollSeconds  int    `mapstructure:"poll_seconds"`
	RetryAttempt int    `mapstructure:"retry_attempts"`
}

type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Stripe StripeConfig `mapstructure:"stripe"`
	Redis  RedisConfig  `mapstructure:"redis"`
	SMTP   SMTPConfig   `mapstructure:"smtp"`
	Outbox OutboxConfig `mapstructure:"outbox"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

// env holds the environment overrides, kept compatible with the variable
// names the deployment already uses.
type env struct {
	Port        int    `envconfig:"PORT"`
	DBURI       string `envconfig:"DB_URI"`
	DBName      string `envconfig:"DB_NAME"`
	AccessToken string `envconfig:"ACCESS_TOKEN"`
	StripeKey   string `envconfig:"STRIPE_KEY"`
	RedisURL    string `envconfig:"REDIS_URL"`
	SMTPHost    string `envconfig:"SMTP_HOST"`
	SMTPPort    int    `envconfig:"SMTP_PORT"`
	SMTPUser    string `envconfig:"SMTP_USER"`
	SMTPPass    string `envconfig:"SMTP_PASS"`
	EmailFrom   string `envconfig:"EMAIL_FROM"`
}

// LoadConfig reads the optional yaml file, then overlays environment
// variables. The yaml file is optional so env-only deployments keep working.
func LoadConfig() (*Config, error) {
	config := &Config{
		Server: ServerConfig{Port: 5000},
		Mongo:  MongoConfig{Database: "doctorsPortal"},
		JWT:    JWTConfig{ExpiryHours: 1},
		Outbox: OutboxConfig{BatchSize: 50, PollSeconds: 5, RetryAttempt: 3},
		Cache:  CacheConfig{TTLSeconds: 60},
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var e env
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if e.Port != 0 {
		config.Server.Port = e.Port
	}
	if e.DBURI != "" {
		config.Mongo.URI = e.DBURI
	}
	if e.DBName != "" {
		config.Mongo.Database = e.DBName
	}
	if e.AccessToken != "" {
		config.JWT.Secret = e.AccessToken
	}
	if e.StripeKey != "" {
		config.Stripe.SecretKey = e.StripeKey
	}
	if e.RedisURL != "" {
		config.Redis.URL = e.RedisURL
	}
	if e.SMTPHost != "" {
		config.SMTP.Host = e.SMTPHost
	}
	if e.SMTPPort != 0 {
		config.SMTP.Port = e.SMTPPort
	}
	if e.SMTPUser != "" {
		config.SMTP.Username = e.SMTPUser
	}
	if e.SMTPPass != "" {
		config.SMTP.Password = e.SMTPPass
	}
	if e.EmailFrom != "" {
		config.SMTP.From = e.EmailFrom
	}

	if config.Mongo.URI == "" {
		return nil, fmt.Errorf("mongo URI is required (DB_URI)")
	}
	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("token secret is required (ACCESS_TOKEN)")
	}

	return config, nil
}

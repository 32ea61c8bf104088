package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	WebAuthn WebAuthnConfig `mapstructure:"webauthn"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Release  ReleaseConfig  `mapstructure:"release"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	KYC      KYCConfig      `mapstructure:"kyc"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LedgerConfig configures the external escrow-ledger API client.
type LedgerConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`     // transient errors only
	RetryBackoff   time.Duration `mapstructure:"retry_backoff"`   // base backoff, scaled by attempt number
}

// WebAuthnConfig configures the passkey relying party.
type WebAuthnConfig struct {
	RPID          string        `mapstructure:"rp_id"`
	RPDisplayName string        `mapstructure:"rp_display_name"`
	RPOrigins     []string      `mapstructure:"rp_origins"`
	ChallengeTTL  time.Duration `mapstructure:"challenge_ttl"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// ReleaseConfig configures the background fund-release worker.
type ReleaseConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	Parallelism  int           `mapstructure:"parallelism"`
}

// SyncConfig configures the periodic ledger reconciliation pass.
type SyncConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	Parallelism int           `mapstructure:"parallelism"`
}

// NotifyConfig configures the outbound event webhook. An empty URL disables
// delivery.
type NotifyConfig struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// KYCConfig configures the identity-verification vendor client.
type KYCConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: KF_.
// Nested keys use underscore: KF_DATABASE_HOST, KF_LEDGER_BASE_URL, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "kindfi_escrow")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ledger.base_url", "https://api.trustlesswork.example")
	v.SetDefault("ledger.api_key", "")
	v.SetDefault("ledger.request_timeout", "15s")
	v.SetDefault("ledger.max_retries", 3)
	v.SetDefault("ledger.retry_backoff", "500ms")
	v.SetDefault("webauthn.rp_id", "localhost")
	v.SetDefault("webauthn.rp_display_name", "KindFi Escrow")
	v.SetDefault("webauthn.rp_origins", []string{"http://localhost:3000"})
	v.SetDefault("webauthn.challenge_ttl", "5m")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "kindfi-escrow")
	v.SetDefault("release.poll_interval", "30s")
	v.SetDefault("release.max_attempts", 5)
	v.SetDefault("release.parallelism", 4)
	v.SetDefault("sync.interval", "2m")
	v.SetDefault("sync.parallelism", 4)
	v.SetDefault("notify.webhook_url", "")
	v.SetDefault("notify.timeout", "10s")
	v.SetDefault("kyc.base_url", "")
	v.SetDefault("kyc.api_key", "")
	v.SetDefault("kyc.timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: KF_DATABASE_HOST -> database.host
	v.SetEnvPrefix("KF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

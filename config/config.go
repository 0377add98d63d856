package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the service
type Config struct {
	Bot      BotConfig
	Telegram TelegramConfig
	Database DatabaseConfig
	Vault    VaultConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
	Service  ServiceConfig
	Engine   EngineConfig
}

// BotConfig holds Bot API transport configuration
type BotConfig struct {
	Token          string
	WebhookURL     string // empty switches the transport to long polling
	AdminIDs       []int64
	DefaultCredits int
}

// TelegramConfig holds Telegram MTProto configuration
type TelegramConfig struct {
	APIID   int
	APIHash string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL            string
	MigrationsPath string
}

// VaultConfig holds session encryption configuration.
// The key must stay stable across restarts: regenerating it orphans every
// stored ciphertext.
type VaultConfig struct {
	Key        string // base64, 32 bytes
	Passphrase string // alternative: derive the key from passphrase+salt
	Salt       string
}

// KafkaConfig holds audit event producer configuration.
// Empty Brokers disables the producer.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// EngineConfig holds scan/delete engine tunables
type EngineConfig struct {
	DialogCap      int
	SearchPageSize int
	ConnTTL        time.Duration
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Bot      *BotConfig
	Telegram *TelegramConfig
	Database *DatabaseConfig
	Vault    *VaultConfig
	Kafka    *KafkaConfig
	Logging  *LoggingConfig
	Service  *ServiceConfig
	Engine   *EngineConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Bot:      &cfg.Bot,
		Telegram: &cfg.Telegram,
		Database: &cfg.Database,
		Vault:    &cfg.Vault,
		Kafka:    &cfg.Kafka,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
		Engine:   &cfg.Engine,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	apiID, err := strconv.Atoi(getEnv("TELEGRAM_API_ID", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_API_ID: %w", err)
	}

	defaultCredits, err := strconv.Atoi(getEnv("DEFAULT_CREDITS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_CREDITS: %w", err)
	}

	dialogCap, err := strconv.Atoi(getEnv("DIALOG_CAP", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIALOG_CAP: %w", err)
	}

	pageSize, err := strconv.Atoi(getEnv("SEARCH_PAGE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_PAGE_SIZE: %w", err)
	}

	connTTL, err := time.ParseDuration(getEnv("CONN_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONN_TTL: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := time.ParseDuration(getEnv("HTTP_IDLE_TIMEOUT", "2m"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_IDLE_TIMEOUT: %w", err)
	}

	adminIDs := []int64{}
	for _, part := range strings.Split(getEnv("ADMIN_IDS", ""), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_IDS entry %q: %w", part, err)
		}
		adminIDs = append(adminIDs, id)
	}

	brokers := []string{}
	if brokersStr := getEnv("KAFKA_BROKERS", ""); brokersStr != "" {
		brokers = strings.Split(brokersStr, ",")
	}

	cfg := &Config{
		Bot: BotConfig{
			Token:          getEnv("BOT_TOKEN", ""),
			WebhookURL:     getEnv("WEBHOOK_URL", ""),
			AdminIDs:       adminIDs,
			DefaultCredits: defaultCredits,
		},
		Telegram: TelegramConfig{
			APIID:   apiID,
			APIHash: getEnv("TELEGRAM_API_HASH", ""),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		},
		Vault: VaultConfig{
			Key:        getEnv("VAULT_KEY", ""),
			Passphrase: getEnv("VAULT_PASSPHRASE", ""),
			Salt:       getEnv("VAULT_SALT", ""),
		},
		Kafka: KafkaConfig{
			Brokers:    brokers,
			AuditTopic: getEnv("KAFKA_TOPIC_AUDIT", "shadowclean.operations"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name:         getEnv("SERVICE_NAME", "shadowclean-bot"),
			Port:         getEnv("PORT", "8000"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		Engine: EngineConfig{
			DialogCap:      dialogCap,
			SearchPageSize: pageSize,
			ConnTTL:        connTTL,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.Telegram.APIID == 0 {
		return fmt.Errorf("TELEGRAM_API_ID is required")
	}

	if c.Telegram.APIHash == "" {
		return fmt.Errorf("TELEGRAM_API_HASH is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Vault.Key == "" && c.Vault.Passphrase == "" {
		return fmt.Errorf("VAULT_KEY or VAULT_PASSPHRASE is required")
	}

	if c.Vault.Key != "" {
		raw, err := base64.StdEncoding.DecodeString(c.Vault.Key)
		if err != nil {
			return fmt.Errorf("VAULT_KEY must be base64: %w", err)
		}
		if len(raw) != 32 {
			return fmt.Errorf("VAULT_KEY must decode to 32 bytes, got %d", len(raw))
		}
	}

	if c.Vault.Passphrase != "" && c.Vault.Salt == "" {
		return fmt.Errorf("VAULT_SALT is required with VAULT_PASSPHRASE")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

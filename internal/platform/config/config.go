package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	LogLevel    string

	StorageDriver string
	PostgresDSN   string
	SQLitePath    string

	Administrator string
	Custody       string
	TokenName     string
	TokenSymbol   string
	GenesisSupply string
	TokensPerVote string

	JWTSecret          string
	InsecureHeaderAuth bool
	CORSOrigins        []string
	WriteRateLimit     float64
	WriteBurst         int

	EmbedWorkers          bool
	OutboxPollInterval    time.Duration
	OutboxBatchSize       int
	EnableWindowMonitor   bool
	WindowMonitorInterval time.Duration
}

// fileConfig is the YAML shape. Empty values keep the defaults.
type fileConfig struct {
	Service struct {
		Name     string `yaml:"name"`
		HTTPPort string `yaml:"http-port"`
		LogLevel string `yaml:"log-level"`
	} `yaml:"service"`
	Storage struct {
		Driver      string `yaml:"driver"`
		PostgresDSN string `yaml:"postgres-dsn"`
		SQLitePath  string `yaml:"sqlite-path"`
	} `yaml:"storage"`
	Ledger struct {
		Administrator string `yaml:"administrator"`
		Custody       string `yaml:"custody"`
		TokenName     string `yaml:"token-name"`
		TokenSymbol   string `yaml:"token-symbol"`
		GenesisSupply string `yaml:"genesis-supply"`
		TokensPerVote string `yaml:"tokens-per-vote"`
	} `yaml:"ledger"`
	HTTP struct {
		JWTSecret          string   `yaml:"jwt-secret"`
		InsecureHeaderAuth *bool    `yaml:"insecure-header-auth"`
		CORSOrigins        []string `yaml:"cors-origins"`
		WriteRateLimit     float64  `yaml:"write-rate-limit"`
		WriteBurst         int      `yaml:"write-burst"`
	} `yaml:"http"`
	Workers struct {
		Embed                 *bool  `yaml:"embed"`
		OutboxPollInterval    string `yaml:"outbox-poll-interval"`
		OutboxBatchSize       int    `yaml:"outbox-batch-size"`
		EnableWindowMonitor   *bool  `yaml:"enable-window-monitor"`
		WindowMonitorInterval string `yaml:"window-monitor-interval"`
	} `yaml:"workers"`
}

func Default() Config {
	return Config{
		ServiceName:           "blockvote",
		HTTPPort:              "8080",
		LogLevel:              "info",
		StorageDriver:         StorageSQLite,
		SQLitePath:            "data/blockvote.db",
		Administrator:         "admin",
		Custody:               "voting-engine",
		TokenName:             "VoteToken",
		TokenSymbol:           "VOTE",
		GenesisSupply:         "100000",
		TokensPerVote:         "1",
		CORSOrigins:           []string{"*"},
		WriteRateLimit:        20,
		WriteBurst:            40,
		EmbedWorkers:          true,
		OutboxPollInterval:    time.Second,
		OutboxBatchSize:       100,
		EnableWindowMonitor:   true,
		WindowMonitorInterval: 30 * time.Second,
	}
}

// Load resolves defaults, then the optional YAML file at path, then
// environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("postgres storage requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}
	if strings.TrimSpace(c.JWTSecret) == "" && !c.InsecureHeaderAuth {
		return fmt.Errorf("JWT_SECRET is required unless INSECURE_HEADER_AUTH is set")
	}
	if strings.TrimSpace(c.Administrator) == "" || strings.TrimSpace(c.Custody) == "" {
		return fmt.Errorf("administrator and custody addresses are required")
	}
	if c.Administrator == c.Custody {
		return fmt.Errorf("administrator and custody addresses must differ")
	}
	if c.OutboxPollInterval <= 0 || c.WindowMonitorInterval <= 0 {
		return fmt.Errorf("worker intervals must be positive")
	}
	return nil
}

func (c *Config) applyFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()

	var raw fileConfig
	if err := yaml.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}

	setString(&c.ServiceName, raw.Service.Name)
	setString(&c.HTTPPort, raw.Service.HTTPPort)
	setString(&c.LogLevel, raw.Service.LogLevel)
	setString(&c.StorageDriver, raw.Storage.Driver)
	setString(&c.PostgresDSN, raw.Storage.PostgresDSN)
	setString(&c.SQLitePath, raw.Storage.SQLitePath)
	setString(&c.Administrator, raw.Ledger.Administrator)
	setString(&c.Custody, raw.Ledger.Custody)
	setString(&c.TokenName, raw.Ledger.TokenName)
	setString(&c.TokenSymbol, raw.Ledger.TokenSymbol)
	setString(&c.GenesisSupply, raw.Ledger.GenesisSupply)
	setString(&c.TokensPerVote, raw.Ledger.TokensPerVote)
	setString(&c.JWTSecret, raw.HTTP.JWTSecret)
	if raw.HTTP.InsecureHeaderAuth != nil {
		c.InsecureHeaderAuth = *raw.HTTP.InsecureHeaderAuth
	}
	if len(raw.HTTP.CORSOrigins) > 0 {
		c.CORSOrigins = raw.HTTP.CORSOrigins
	}
	if raw.HTTP.WriteRateLimit > 0 {
		c.WriteRateLimit = raw.HTTP.WriteRateLimit
	}
	if raw.HTTP.WriteBurst > 0 {
		c.WriteBurst = raw.HTTP.WriteBurst
	}
	if raw.Workers.OutboxBatchSize > 0 {
		c.OutboxBatchSize = raw.Workers.OutboxBatchSize
	}
	if raw.Workers.Embed != nil {
		c.EmbedWorkers = *raw.Workers.Embed
	}
	if raw.Workers.EnableWindowMonitor != nil {
		c.EnableWindowMonitor = *raw.Workers.EnableWindowMonitor
	}
	if err := setDuration(&c.OutboxPollInterval, raw.Workers.OutboxPollInterval); err != nil {
		return fmt.Errorf("outbox-poll-interval: %w", err)
	}
	if err := setDuration(&c.WindowMonitorInterval, raw.Workers.WindowMonitorInterval); err != nil {
		return fmt.Errorf("window-monitor-interval: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.ServiceName, os.Getenv("SERVICE_NAME"))
	setString(&c.HTTPPort, os.Getenv("HTTP_PORT"))
	setString(&c.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&c.StorageDriver, strings.ToLower(os.Getenv("STORAGE_DRIVER")))
	setString(&c.PostgresDSN, os.Getenv("POSTGRES_DSN"))
	setString(&c.SQLitePath, os.Getenv("SQLITE_PATH"))
	setString(&c.Administrator, os.Getenv("LEDGER_ADMINISTRATOR"))
	setString(&c.Custody, os.Getenv("LEDGER_CUSTODY"))
	setString(&c.TokenName, os.Getenv("LEDGER_TOKEN_NAME"))
	setString(&c.TokenSymbol, os.Getenv("LEDGER_TOKEN_SYMBOL"))
	setString(&c.GenesisSupply, os.Getenv("LEDGER_GENESIS_SUPPLY"))
	setString(&c.TokensPerVote, os.Getenv("LEDGER_TOKENS_PER_VOTE"))
	setString(&c.JWTSecret, os.Getenv("JWT_SECRET"))

	if origins := splitList(os.Getenv("CORS_ORIGINS")); len(origins) > 0 {
		c.CORSOrigins = origins
	}
	if raw := strings.TrimSpace(os.Getenv("WRITE_RATE_LIMIT")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("WRITE_RATE_LIMIT: %w", err)
		}
		c.WriteRateLimit = value
	}
	if err := setInt(&c.WriteBurst, os.Getenv("WRITE_BURST")); err != nil {
		return fmt.Errorf("WRITE_BURST: %w", err)
	}
	if err := setInt(&c.OutboxBatchSize, os.Getenv("OUTBOX_BATCH_SIZE")); err != nil {
		return fmt.Errorf("OUTBOX_BATCH_SIZE: %w", err)
	}
	if err := setDuration(&c.OutboxPollInterval, os.Getenv("OUTBOX_POLL_INTERVAL")); err != nil {
		return fmt.Errorf("OUTBOX_POLL_INTERVAL: %w", err)
	}
	if err := setDuration(&c.WindowMonitorInterval, os.Getenv("WINDOW_MONITOR_INTERVAL")); err != nil {
		return fmt.Errorf("WINDOW_MONITOR_INTERVAL: %w", err)
	}
	c.InsecureHeaderAuth = envBool("INSECURE_HEADER_AUTH", c.InsecureHeaderAuth)
	c.EmbedWorkers = envBool("EMBED_WORKERS", c.EmbedWorkers)
	c.EnableWindowMonitor = envBool("ENABLE_WINDOW_MONITOR", c.EnableWindowMonitor)
	return nil
}

func setString(target *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*target = value
	}
}

func setInt(target *int, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}
	*target = value
	return nil
}

func setDuration(target *time.Duration, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*target = value
	return nil
}

func splitList(raw string) []string {
	var items []string
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

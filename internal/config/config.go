package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-social-escrow/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	Path            string        `mapstructure:"path"`               // sqlite database file
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"` // empty disables event publishing
	StreamName     string        `mapstructure:"stream_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds

	// AllowedOrigins lists the CORS origins; empty allows any origin
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	APIKeys      []string      `mapstructure:"api_keys"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	NonceTTL     time.Duration `mapstructure:"nonce_ttl"`
	SignInDomain string        `mapstructure:"sign_in_domain"`
}

// SolanaConfig holds the program deployment configuration
type SolanaConfig struct {
	ProgramID   string `mapstructure:"program_id"`
	Mint        string `mapstructure:"mint"`
	AdminSecret string `mapstructure:"admin_secret"` // base58 private key of the program admin
	RPCURL      string `mapstructure:"rpc_url"`
	Commitment  string `mapstructure:"commitment"`
}

// RateLimitConfig holds the limits of a single rate-limited provider
type RateLimitConfig struct {
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxQueueTime      time.Duration `mapstructure:"max_queue_time"`
}

// RateLimiterConfig holds the rate limiter configuration
type RateLimiterConfig struct {
	RedisURL                string                     `mapstructure:"redis_url"` // empty keeps limits local to the process
	RedisKeyPrefix          string                     `mapstructure:"redis_key_prefix"`
	MaxWorkers              int                        `mapstructure:"max_workers"`
	MaxQueueSize            int                        `mapstructure:"max_queue_size"`
	EnableLocalFallback     bool                       `mapstructure:"enable_local_fallback"`
	LocalFallbackMultiplier float64                    `mapstructure:"local_fallback_multiplier"`
	Providers               map[string]RateLimitConfig `mapstructure:"providers"`
}

// QueryConfig holds query layer configuration
type QueryConfig struct {
	Source      string `mapstructure:"source"` // store or rpc
	Concurrency int    `mapstructure:"concurrency"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig      `mapstructure:"server"`
	Database   DatabaseConfig    `mapstructure:"database"`
	NATS       NATSConfig        `mapstructure:"nats"`
	Auth       AuthConfig        `mapstructure:"auth"`
	Solana     SolanaConfig      `mapstructure:"solana"`
	RateLimit  RateLimiterConfig `mapstructure:"rate_limit"`
	Query      QueryConfig       `mapstructure:"query"`
}

// AdminConfig holds configuration for the admin tool
type AdminConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig    `mapstructure:"database"`
	NATS       NATSConfig        `mapstructure:"nats"`
	Solana     SolanaConfig      `mapstructure:"solana"`
	RateLimit  RateLimiterConfig `mapstructure:"rate_limit"`
}

// ChallengeSweeperConfig holds the sign-in challenge sweeper configuration
type ChallengeSweeperConfig struct {
	BatchSize       int           `mapstructure:"batch_size"`
	Interval        time.Duration `mapstructure:"interval"`
	RetryMaxElapsed time.Duration `mapstructure:"retry_max_elapsed"`
}

// SweeperConfig holds configuration for the sweeper
type SweeperConfig struct {
	BaseConfig       `mapstructure:",squash"`
	Database         DatabaseConfig         `mapstructure:"database"`
	ChallengeSweeper ChallengeSweeperConfig `mapstructure:"challenge_sweeper"`
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("auth.session_ttl", "24h")
	v.SetDefault("auth.nonce_ttl", "5m")
	v.SetDefault("auth.sign_in_domain", "localhost")
	v.SetDefault("query.source", "store")
	v.SetDefault("query.concurrency", 8)
	setDatabaseDefaults(v)
	setNATSDefaults(v)
	setSolanaDefaults(v)
	setRateLimitDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}

	return &config, nil
}

// LoadAdminConfig loads configuration for the admin tool
func LoadAdminConfig(configFile string, envPath string) (*AdminConfig, error) {
	v := configureViper("admin", configFile, envPath)

	v.SetDefault("debug", false)
	setDatabaseDefaults(v)
	setNATSDefaults(v)
	setSolanaDefaults(v)
	setRateLimitDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config AdminConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadSweeperConfig loads configuration for the sweeper
func LoadSweeperConfig(configFile string, envPath string) (*SweeperConfig, error) {
	v := configureViper("sweeper", configFile, envPath)

	v.SetDefault("debug", false)
	v.SetDefault("challenge_sweeper.batch_size", 500)
	v.SetDefault("challenge_sweeper.interval", "5m")
	v.SetDefault("challenge_sweeper.retry_max_elapsed", "1m")
	setDatabaseDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config SweeperConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "social-escrow.db")
	v.SetDefault("database.auto_migrate", true)
}

func setNATSDefaults(v *viper.Viper) {
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "ESCROW_EVENTS")
	v.SetDefault("nats.connection_name", "social-escrow")
}

func setSolanaDefaults(v *viper.Viper) {
	v.SetDefault("solana.program_id", domain.DEFAULT_PROGRAM_ID)
	v.SetDefault("solana.rpc_url", "https://api.devnet.solana.com")
	v.SetDefault("solana.commitment", "confirmed")
}

func setRateLimitDefaults(v *viper.Viper) {
	v.SetDefault("rate_limit.redis_key_prefix", "social-escrow:limiter:")
	v.SetDefault("rate_limit.enable_local_fallback", true)
	v.SetDefault("rate_limit.local_fallback_multiplier", 0.5)
	v.SetDefault("rate_limit.providers.solana_rpc.requests_per_second", 10)
	v.SetDefault("rate_limit.providers.solana_rpc.burst", 10)
	v.SetDefault("rate_limit.providers.solana_rpc.max_queue_time", "30s")
	v.SetDefault("rate_limit.providers.api_writes.requests_per_second", 5)
	v.SetDefault("rate_limit.providers.api_writes.burst", 10)
}

// readConfig reads the config file. A missing file is fine, environment variables are used instead.
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/, cmd/admin/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("SOCIAL_ESCROW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.driver",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.path",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		"database.auto_migrate",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		// Auth
		"auth.api_keys",
		"auth.jwt_secret",
		"auth.session_ttl",
		"auth.nonce_ttl",
		"auth.sign_in_domain",
		// Solana
		"solana.program_id",
		"solana.mint",
		"solana.admin_secret",
		"solana.rpc_url",
		"solana.commitment",
		// Rate limit
		"rate_limit.redis_url",
		"rate_limit.redis_key_prefix",
		"rate_limit.max_workers",
		"rate_limit.max_queue_size",
		"rate_limit.enable_local_fallback",
		"rate_limit.local_fallback_multiplier",
		// Query
		"query.source",
		"query.concurrency",
		// Sweeper
		"challenge_sweeper.batch_size",
		"challenge_sweeper.interval",
		"challenge_sweeper.retry_max_elapsed",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string for the configured driver
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.Path
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

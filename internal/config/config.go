package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"library-backend/internal/infrastructure/database"
)

const (
	defaultJWTSecret      = "library-dev-secret-change-in-production"
	defaultSharedPassword = "secret"
)

// Store, cache and hub drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverLocal    = "local"
	DriverRedis    = "redis"
	DriverNATS     = "nats"
)

// Config is the whole application configuration, populated from the
// environment
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Store    StoreConfig
	Database *database.DBConfig
	Mongo    MongoConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Hub      HubConfig
	NATS     NATSConfig
	Queue    QueueConfig
	JWT      JWTConfig
	Auth     AuthConfig
	GraphQL  GraphQLConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type StoreConfig struct {
	Driver      string // memory, postgres, mongo
	AutoMigrate bool
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type CacheConfig struct {
	Driver   string // local, redis
	TTL      time.Duration
	MaxBytes int64
	Prefix   string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type HubConfig struct {
	Driver         string // memory, redis, nats
	Prefix         string
	PublishTimeout time.Duration
}

type NATSConfig struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

// QueueConfig enables durable delivery of bookAdded events through asynq.
// The worker relays tasks onto the hub, so the hub must be shared.
type QueueConfig struct {
	Enabled     bool
	Concurrency int
	MaxRetry    int
	StatsCron   string // empty disables the stats job
	HealthPort  string // worker /health and /metrics
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration // 0 means tokens never expire
	Issuer string
}

type AuthConfig struct {
	SharedPassword string
}

type GraphQLConfig struct {
	MaxDepth int
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	dbCfg, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Library GraphQL API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "4000"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Database: dbCfg,
		Mongo: MongoConfig{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "library"),
			ConnectTimeout: getEnvDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			Driver:   strings.ToLower(getEnv("CACHE_DRIVER", DriverLocal)),
			TTL:      getEnvDuration("CACHE_TTL", 15*time.Minute),
			MaxBytes: int64(getEnvInt("CACHE_MAX_BYTES", 32<<20)),
			Prefix:   getEnv("CACHE_PREFIX", "library:"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Hub: HubConfig{
			Driver:         strings.ToLower(getEnv("HUB_DRIVER", DriverMemory)),
			Prefix:         getEnv("HUB_PREFIX", "library."),
			PublishTimeout: getEnvDuration("HUB_PUBLISH_TIMEOUT", 5*time.Second),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects: getEnvInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait: getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		},
		Queue: QueueConfig{
			Enabled:     getEnvBool("QUEUE_ENABLED", false),
			Concurrency: getEnvInt("QUEUE_CONCURRENCY", 10),
			MaxRetry:    getEnvInt("QUEUE_MAX_RETRY", 5),
			StatsCron:   getEnv("QUEUE_STATS_CRON", "*/15 * * * *"),
			HealthPort:  getEnv("WORKER_HEALTH_PORT", "9999"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", defaultJWTSecret),
			Expiry: time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
			Issuer: getEnv("JWT_ISSUER", "library-backend"),
		},
		Auth: AuthConfig{
			SharedPassword: getEnv("AUTH_SHARED_PASSWORD", defaultSharedPassword),
		},
		GraphQL: GraphQLConfig{
			MaxDepth: getEnvInt("GRAPHQL_MAX_DEPTH", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects unknown drivers, inconsistent combinations and
// development secrets in production
func (c *Config) Validate() error {
	var problems []error

	switch c.Store.Driver {
	case DriverMemory, DriverPostgres, DriverMongo:
	default:
		problems = append(problems, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}
	switch c.Cache.Driver {
	case DriverLocal, DriverRedis:
	default:
		problems = append(problems, fmt.Errorf("unknown CACHE_DRIVER %q", c.Cache.Driver))
	}
	switch c.Hub.Driver {
	case DriverMemory, DriverRedis, DriverNATS:
	default:
		problems = append(problems, fmt.Errorf("unknown HUB_DRIVER %q", c.Hub.Driver))
	}

	if c.Queue.Enabled && c.Hub.Driver == DriverMemory {
		problems = append(problems, errors.New("QUEUE_ENABLED requires HUB_DRIVER redis or nats"))
	}
	if c.JWT.Expiry < 0 {
		problems = append(problems, errors.New("JWT_EXPIRY_HOURS must not be negative"))
	}
	if c.JWT.Secret == "" {
		problems = append(problems, errors.New("JWT_SECRET must not be empty"))
	}

	if c.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret {
			problems = append(problems, errors.New("JWT_SECRET must be set in production"))
		}
		if c.Auth.SharedPassword == defaultSharedPassword {
			problems = append(problems, errors.New("AUTH_SHARED_PASSWORD must be set in production"))
		}
		if c.Store.Driver == DriverPostgres && c.Database.Password == "" {
			problems = append(problems, errors.New("DB_PASSWORD must be set in production"))
		}
	}

	return errors.Join(problems...)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

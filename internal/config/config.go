package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	Upstream  UpstreamConfig
	Favorites FavoritesConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level string
}

// UpstreamConfig - настройки KMB open data API
type UpstreamConfig struct {
	BaseURL           string
	RequestTimeout    time.Duration
	EnrichConcurrency int
}

// FavoritesConfig selects where the favorites snapshot lives.
type FavoritesConfig struct {
	Backend   string
	Namespace string
}

type WorkerConfig struct {
	PoolSize          int
	SyncEnabled       bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
}

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile reads path if it exists; environment variables always override it.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Upstream: UpstreamConfig{
			BaseURL:           strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
			RequestTimeout:    time.Duration(v.GetInt("UPSTREAM_REQUEST_TIMEOUT")) * time.Second,
			EnrichConcurrency: v.GetInt("UPSTREAM_ENRICH_CONCURRENCY"),
		},
		Favorites: FavoritesConfig{
			Backend:   strings.ToLower(v.GetString("FAVORITES_BACKEND")),
			Namespace: v.GetString("FAVORITES_NAMESPACE"),
		},
		Worker: WorkerConfig{
			PoolSize:          v.GetInt("WORKER_POOL_SIZE"),
			SyncEnabled:       v.GetBool("WORKER_SYNC_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Set default values if not provided
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = "https://data.etabus.gov.hk/v1/transport/kmb"
	}
	if cfg.Upstream.RequestTimeout == 0 {
		cfg.Upstream.RequestTimeout = 15 * time.Second
	}
	if cfg.Upstream.EnrichConcurrency == 0 {
		cfg.Upstream.EnrichConcurrency = 4
	}
	if cfg.Favorites.Backend == "" {
		cfg.Favorites.Backend = BackendRedis
	}
	if cfg.Favorites.Namespace == "" {
		cfg.Favorites.Namespace = "bus_favorites"
	}
	if cfg.Worker.PoolSize == 0 {
		cfg.Worker.PoolSize = 4
	}
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "favorite-sync"
	}
	if cfg.Worker.StreamReadTimeout == 0 {
		cfg.Worker.StreamReadTimeout = 1000 * time.Millisecond
	}
}

func (c *Config) validate() error {
	switch c.Favorites.Backend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown favorites backend %q", c.Favorites.Backend)
	}
	if c.Worker.PoolSize < 1 {
		return fmt.Errorf("worker pool size must be positive, got %d", c.Worker.PoolSize)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

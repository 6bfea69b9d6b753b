package config

import (
	"fmt"
	"strings"
)

// Backend selects a storage implementation.
type Backend string

const (
	// BackendMemory keeps data in process memory; it is lost on restart.
	BackendMemory Backend = "memory"
	// BackendPostgres stores users and todos in PostgreSQL.
	BackendPostgres Backend = "postgres"
	// BackendRedis stores sessions in Redis.
	BackendRedis Backend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for Backend.
func (b *Backend) UnmarshalText(text []byte) error {
	v := Backend(strings.ToLower(strings.TrimSpace(string(text))))
	switch v {
	case BackendMemory, BackendPostgres, BackendRedis:
		*b = v
		return nil
	default:
		return fmt.Errorf("invalid backend: %q (valid options: memory, postgres, redis)", v)
	}
}

// StorageConfig selects backends for each kind of data.
type StorageConfig struct {
	// Data holds users and todos: memory or postgres.
	Data Backend `env:"STORAGE" envDefault:"memory"`
	// Sessions holds browser sessions: memory or redis.
	Sessions Backend `env:"SESSION_STORE" envDefault:"memory"`
	// SeedDemoData loads the demo users and todos on start.
	SeedDemoData bool `env:"SEED_DEMO_DATA" envDefault:"true"`
}

// Validate rejects backends that do not apply to the given kind of data.
func (s StorageConfig) Validate() error {
	if s.Data != BackendMemory && s.Data != BackendPostgres {
		return fmt.Errorf("STORAGE must be memory or postgres, got %q", s.Data)
	}
	if s.Sessions != BackendMemory && s.Sessions != BackendRedis {
		return fmt.Errorf("SESSION_STORE must be memory or redis, got %q", s.Sessions)
	}
	return nil
}

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"todo"`
	Password string `env:"PASSWORD" envDefault:"todo"`
	Name     string `env:"NAME"     envDefault:"todo"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
	// KeyPrefix namespaces session keys.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"session:"`
}

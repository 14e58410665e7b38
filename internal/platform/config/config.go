package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "paygate/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	LogLevel       string
	JWTSigningKey  string
	AdminTokenHash string // bcrypt hash of the admin API token
}

// Redis holds connection settings for the optional redis-backed rate-limit
// store. Empty URL means redis is not configured.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Audit holds settings for the durable audit trail. Both sinks are optional;
// with neither configured events stay in the in-memory store.
type Audit struct {
	PostgresURL  string
	KafkaBrokers []string
	KafkaTopic   string
}

// Wallet tunes identity resolution.
type Wallet struct {
	CacheCapacity int
	CacheTTL      time.Duration
	AliasSuffixes []string
	LookupLimit   int
	LookupWindow  time.Duration
}

// Distribution tunes the reward-distribution engine.
type Distribution struct {
	DispatchLimit  int
	DispatchWindow time.Duration
	DefaultChainID int64
	MinAmount      float64
	LockWait       time.Duration // 0 waits forever
}

// Config aggregates all sections so main stays lean.
type Config struct {
	Server       Server
	Redis        Redis
	Audit        Audit
	Wallet       Wallet
	Distribution Distribution
}

// FromEnv builds a Config from environment variables with development-safe
// defaults. Production deployments override the secrets.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:           envOr("PAYGATE_ADDR", ":8080"),
			LogLevel:       envOr("PAYGATE_LOG_LEVEL", "info"),
			JWTSigningKey:  envOr("PAYGATE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			AdminTokenHash: os.Getenv("PAYGATE_ADMIN_TOKEN_HASH"),
		},
		Redis: Redis{
			URL:          os.Getenv("PAYGATE_REDIS_URL"),
			PoolSize:     envInt("PAYGATE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("PAYGATE_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("PAYGATE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("PAYGATE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("PAYGATE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Audit: Audit{
			PostgresURL:  os.Getenv("PAYGATE_POSTGRES_URL"),
			KafkaBrokers: envList("PAYGATE_KAFKA_BROKERS"),
			KafkaTopic:   envOr("PAYGATE_KAFKA_AUDIT_TOPIC", "paygate.audit"),
		},
		Wallet: Wallet{
			CacheCapacity: envInt("PAYGATE_RESOLUTION_CACHE_CAPACITY", 1000),
			CacheTTL:      envDuration("PAYGATE_RESOLUTION_CACHE_TTL", 30*time.Minute),
			AliasSuffixes: pstrings.DedupeAndTrimLower(envListOr("PAYGATE_ALIAS_SUFFIXES", []string{".eth"})),
			LookupLimit:   envInt("PAYGATE_LOOKUP_LIMIT", 20),
			LookupWindow:  envDuration("PAYGATE_LOOKUP_WINDOW", time.Minute),
		},
		Distribution: Distribution{
			DispatchLimit:  envInt("PAYGATE_DISPATCH_LIMIT", 20),
			DispatchWindow: envDuration("PAYGATE_DISPATCH_WINDOW", time.Minute),
			DefaultChainID: int64(envInt("PAYGATE_DEFAULT_CHAIN_ID", 1)),
			MinAmount:      envFloat("PAYGATE_MIN_AMOUNT", 0.001),
			LockWait:       envDuration("PAYGATE_LOCK_WAIT", 2*time.Minute),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func envListOr(key string, fallback []string) []string {
	if out := envList(key); out != nil {
		return out
	}
	return fallback
}

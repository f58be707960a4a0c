package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration. Everything comes from SEV_*
// environment variables so main stays lean and deploys stay twelve-factor.
type Server struct {
	Addr string

	// DatabaseURL enables the postgres stores. Empty means in-memory stores
	// with the default chart seeded, which is how local development runs.
	DatabaseURL string

	Redis RedisConfig

	// KafkaBrokers enables the audit Kafka sink. Empty means audit events
	// stay in the in-process store only.
	KafkaBrokers []string
	AuditTopic   string

	// AdminToken guards the chart administration API. Empty disables the
	// admin surface entirely rather than leaving it open.
	AdminToken string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// RedisConfig captures the snapshot cache connection settings.
// An empty URL disables caching; recommendations then read stores directly.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SnapshotTTL  time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:        getEnv("SEV_ADDR", ":8080"),
		DatabaseURL: os.Getenv("SEV_DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("SEV_REDIS_URL"),
			PoolSize:     getEnvInt("SEV_REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("SEV_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("SEV_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("SEV_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("SEV_REDIS_WRITE_TIMEOUT", 3*time.Second),
			SnapshotTTL:  getEnvDuration("SEV_SNAPSHOT_TTL", 5*time.Minute),
		},
		KafkaBrokers:    splitList(os.Getenv("SEV_KAFKA_BROKERS")),
		AuditTopic:      getEnv("SEV_AUDIT_TOPIC", "sev.audit.events"),
		AdminToken:      os.Getenv("SEV_ADMIN_TOKEN"),
		RequestTimeout:  getEnvDuration("SEV_REQUEST_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getEnvDuration("SEV_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

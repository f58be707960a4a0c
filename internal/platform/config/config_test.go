package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.Equal(t, "sev.audit.events", cfg.AuditTopic)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SEV_ADDR", ":9999")
	t.Setenv("SEV_DATABASE_URL", "postgres://localhost/sev")
	t.Setenv("SEV_KAFKA_BROKERS", "broker-1:9092, broker-2:9092 ,")
	t.Setenv("SEV_ADMIN_TOKEN", "sekret")
	t.Setenv("SEV_SNAPSHOT_TTL", "90s")

	cfg := FromEnv()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "postgres://localhost/sev", cfg.DatabaseURL)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "sekret", cfg.AdminToken)
	assert.Equal(t, 90*time.Second, cfg.Redis.SnapshotTTL)
}

func TestFromEnv_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("SEV_REDIS_POOL_SIZE", "many")
	t.Setenv("SEV_REQUEST_TIMEOUT", "soon")

	cfg := FromEnv()

	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

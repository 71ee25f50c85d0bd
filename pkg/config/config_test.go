package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("DB_LOCK_TIMEOUT", "")

	cfg := Load()
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, 5*time.Second, cfg.DBLockTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE", StoreMemory)
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("DB_LOCK_TIMEOUT", "250ms")
	t.Setenv("SCOPE_CACHE_TTL", "60")
	t.Setenv("ENVIRONMENT", "production")

	cfg := Load()
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 250*time.Millisecond, cfg.DBLockTimeout)
	assert.Equal(t, time.Minute, cfg.ScopeCacheTTL)
	assert.False(t, cfg.IsDevelopment())
}

func TestGetDuration_Invalid(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")
	assert.Equal(t, time.Second, getDuration("SOME_TIMEOUT", time.Second))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("storefront", nil)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, OrderModeLocal, cfg.OrderMode)
	assert.Equal(t, EventsNone, cfg.EventsBackend)
	assert.True(t, cfg.DemoFallback)
	assert.False(t, cfg.SeedDemo)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("STOREFRONT_ADDR", ":9999")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("BLOCKED_PHONES", "01700000000, 01800000000,")
	t.Setenv("DEMO_FALLBACK", "false")

	cfg, err := Load("storefront", []string{"-db", "other.db", "-seed-demo", "-events", "kafka", "-kafka-brokers", "k1:9092,k2:9092"})
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "other.db", cfg.DBPath)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.DemoFallback)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, []string{"01700000000", "01800000000"}, cfg.BlockedPhones)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestSecretFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloudinary")
	require.NoError(t, os.WriteFile(path, []byte("cloudinary://k:s@demo\n"), 0o600))
	t.Setenv("CLOUDINARY_URL_FILE", path)

	cfg, err := Load("storefront", nil)
	require.NoError(t, err)
	assert.Equal(t, "cloudinary://k:s@demo", cfg.CloudinaryURL)
}

func TestValidate(t *testing.T) {
	_, err := Load("storefront", []string{"-order-mode", "remote"})
	assert.ErrorContains(t, err, "requires -order-function-url")

	_, err = Load("storefront", []string{"-order-mode", "carrier-pigeon"})
	assert.ErrorContains(t, err, "unknown order mode")

	_, err = Load("storefront", []string{"-events", "smoke"})
	assert.ErrorContains(t, err, "unknown events backend")

	_, err = Load("storefront", []string{"-session-ttl", "0s"})
	assert.ErrorContains(t, err, "session ttl")
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "camino", cfg.Database.Name)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 5.0, cfg.Nearby.DefaultRadiusKm)
	assert.Equal(t, 50.0, cfg.Nearby.MaxRadiusKm)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoad_KafkaEnabledByBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
}

func TestValidate_RadiusBounds(t *testing.T) {
	t.Setenv("NEARBY_DEFAULT_RADIUS_KM", "100")
	t.Setenv("NEARBY_MAX_RADIUS_KM", "50")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_DefaultSecretRejectedInProduction(t *testing.T) {
	t.Setenv("SERVER_ENV", "production")

	_, err := Load()
	assert.Error(t, err)
}

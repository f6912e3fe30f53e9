package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/vessel-ops/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MONGO_DB", "JWT_EXPIRY", "RATE_LIMIT_PER_SEC", "MQTT_BROKER", "TRUST_PROXY_HEADERS", "JWT_REFRESH_EXPIRY"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "vessel_ops", cfg.MongoDB)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10.0, cfg.RateLimitPerSec)
	assert.Empty(t, cfg.MQTTBroker)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTRefreshExpiry)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY", "90m")
	t.Setenv("RATE_LIMIT_PER_SEC", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("FUEL_CACHE_TTL", "-1s")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, 2.5, cfg.RateLimitPerSec)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, 5*time.Minute, cfg.FuelCacheTTL)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestLoadCatalog_Default(t *testing.T) {
	catalog, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, "Nets & Gear", catalog.Systems["nets"])
	assert.Len(t, catalog.Systems, 7)
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `systems:
  engine: Propulsion
  winch: Deck Winch
sensors:
  - part: Exhaust temperature
    field: exhaust_temp_c
    warning: 400
    critical: 480
    unit: C
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "Propulsion", catalog.Systems["engine"])
	assert.Equal(t, "Deck Winch", catalog.Systems["winch"])
	assert.Equal(t, "Safety Equipment", catalog.Systems["safety"])
	require.Len(t, catalog.Sensors, 1)

	registry := catalog.SensorRegistry()
	res := registry.Evaluate("Exhaust temperature", map[string]any{"exhaust_temp_c": 500.0})
	assert.Equal(t, models.StatusCritical, res.Status)
}

func TestLoadCatalog_Errors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sensors:\n  - part: Oil\n"), 0o600))
	_, err = LoadCatalog(path)
	assert.ErrorContains(t, err, "needs part and field")
}

func TestDefaultCatalog_Sensors(t *testing.T) {
	registry := DefaultCatalog().SensorRegistry()
	assert.Equal(t, models.StatusDueSoon, registry.Evaluate("Battery voltage", map[string]any{"battery_v": 12.0}).Status)
	assert.Equal(t, models.StatusOK, registry.Evaluate("Oil pressure", map[string]any{"oil_pressure_bar": 3.5}).Status)
}

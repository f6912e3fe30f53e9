package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	// HTTP
	Port            string
	ShutdownTimeout time.Duration

	// MongoDB
	MongoURI string
	MongoDB  string

	// Auth
	JWTSecret        string
	JWTExpiry        time.Duration
	JWTRefreshExpiry time.Duration

	// MQTT status publishing, disabled when the broker is empty
	MQTTBroker      string
	MQTTClientID    string
	MQTTTopicPrefix string

	// Rate limiting per client IP
	RateLimitPerSec float64
	RateLimitBurst  int
	// TrustProxyHeaders keys clients by X-Forwarded-For/X-Real-IP. Enable
	// only behind a reverse proxy that sets them.
	TrustProxyHeaders bool

	// Logging
	LogLevel  string
	LogFormat string

	// Fuel estimation
	FuelSpecsPath string
	FuelCacheTTL  time.Duration

	// Optional YAML file with system names and sensor thresholds
	CatalogPath string
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using system environment variables")
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getEnv("MONGO_DB", "vessel_ops"),
		JWTSecret:         getEnv("JWT_SECRET", "default-secret-key-change-in-production"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		JWTRefreshExpiry:  getEnvDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		MQTTBroker:        getEnv("MQTT_BROKER", ""),
		MQTTClientID:      getEnv("MQTT_CLIENT_ID", "vessel-ops"),
		MQTTTopicPrefix:   getEnv("MQTT_TOPIC_PREFIX", "vessel-ops"),
		RateLimitPerSec:   getEnvFloat("RATE_LIMIT_PER_SEC", 10),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 20),
		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		FuelSpecsPath:     getEnv("FUEL_SPECS_PATH", "data/vessels.csv"),
		FuelCacheTTL:      getEnvDuration("FUEL_CACHE_TTL", 5*time.Minute),
		CatalogPath:       getEnv("CATALOG_PATH", ""),
	}
}

// ConfigureLogging applies the level and format to the standard logrus logger.
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("log_level", c.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
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

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

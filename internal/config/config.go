package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreDynamoDB = "dynamodb"
	StoreSQLite   = "sqlite"
	StoreMongoDB  = "mongodb"
)

// Event backends.
const (
	EventsNone  = "none"
	EventsSQS   = "sqs"
	EventsKafka = "kafka"
)

// Metrics backends.
const (
	MetricsNone       = "none"
	MetricsCloudWatch = "cloudwatch"
)

type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	Port        string
	RunLocal    bool
	CORSOrigin  string
	LogLevel    string
	RateLimit   float64

	StoreBackend  string
	ItemsTable    string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	EventsBackend string
	QueueURL      string
	KafkaBrokers  []string
	KafkaTopic    string

	MetricsBackend   string
	MetricsNamespace string
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		AppName:     getEnv("APP_NAME", "wardrobe-api"),
		AppVersion:  getEnv("APP_VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		RunLocal:    os.Getenv("RUN_LOCAL") == "true",
		CORSOrigin:  getEnv("CORS_ORIGIN", "*"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),

		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
		ItemsTable:    getEnv("ITEMS_TABLE", "wardrobe-items"),
		SQLitePath:    getEnv("SQLITE_PATH", "wardrobe.db"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "wardrobe"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		EventsBackend: strings.ToLower(getEnv("EVENTS_BACKEND", EventsNone)),
		QueueURL:      os.Getenv("ITEMS_QUEUE_URL"),
		KafkaBrokers:  splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "wardrobe-items"),

		MetricsBackend:   strings.ToLower(getEnv("METRICS_BACKEND", MetricsNone)),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "WardrobeAPI"),
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "20"), 64)
	if err != nil || rps <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be a positive number, got %q", os.Getenv("RATE_LIMIT_RPS"))
	}
	cfg.RateLimit = rps

	ttl, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be a positive duration, got %q", os.Getenv("CACHE_TTL"))
	}
	cfg.CacheTTL = ttl

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreMemory, StoreDynamoDB, StoreSQLite, StoreMongoDB:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.EventsBackend {
	case EventsNone, EventsKafka:
	case EventsSQS:
		if c.QueueURL == "" {
			return fmt.Errorf("ITEMS_QUEUE_URL is required when EVENTS_BACKEND=sqs")
		}
	default:
		return fmt.Errorf("unknown EVENTS_BACKEND %q", c.EventsBackend)
	}

	switch c.MetricsBackend {
	case MetricsNone, MetricsCloudWatch:
	default:
		return fmt.Errorf("unknown METRICS_BACKEND %q", c.MetricsBackend)
	}
	return nil
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// NeedsAWS reports whether any configured backend talks to AWS.
func (c *Config) NeedsAWS() bool {
	return c.StoreBackend == StoreDynamoDB || c.EventsBackend == EventsSQS || c.MetricsBackend == MetricsCloudWatch
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

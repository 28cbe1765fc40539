package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported catalog/reservation store backends.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config groups the application settings. Values come from the environment, optionally seeded by
// a .env or config.env file in the working directory.
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Store     StoreConfig
	Redis     RedisConfig
	Events    EventsConfig
	LowStock  LowStockConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Env      string
	LogLevel string
}

type HTTPConfig struct {
	Addr           string
	RateLimitRPS   float64
	RateLimitBurst int
}

type StoreConfig struct {
	Driver        string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	CacheTTL time.Duration
}

// Addr returns host:port for the redis client.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type EventsConfig struct {
	KafkaBrokers []string
	LogPath      string
	QueueSize    int
}

type LowStockConfig struct {
	Schedule  string
	Threshold int
}

type TelemetryConfig struct {
	OtelEndpoint   string
	OtelAuthHeader string
}

// Load reads the configuration. Environment variables take precedence over file values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		HTTP: HTTPConfig{
			Addr:           v.GetString("HTTP_ADDR"),
			RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(v.GetString("STORE_DRIVER")),
			DatabaseURL:   v.GetString("DATABASE_URL"),
			MongoURI:      v.GetString("MONGODB_URI"),
			MongoDatabase: v.GetString("MONGODB_DATABASE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			CacheTTL: time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		Events: EventsConfig{
			KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
			LogPath:      v.GetString("EVENTS_LOG_PATH"),
			QueueSize:    v.GetInt("EVENT_QUEUE_SIZE"),
		},
		LowStock: LowStockConfig{
			Schedule:  v.GetString("LOW_STOCK_CRON"),
			Threshold: v.GetInt("LOW_STOCK_THRESHOLD"),
		},
		Telemetry: TelemetryConfig{
			OtelEndpoint:   v.GetString("OTEL_ENDPOINT"),
			OtelAuthHeader: v.GetString("OTEL_AUTH_HEADER"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017/inventory-reservation")
	v.SetDefault("MONGODB_DATABASE", "inventory-reservation")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("CACHE_TTL_SECONDS", 300)
	v.SetDefault("EVENTS_LOG_PATH", "kafka-events.log")
	v.SetDefault("EVENT_QUEUE_SIZE", 1024)
	v.SetDefault("LOW_STOCK_CRON", "@every 6h")
	v.SetDefault("LOW_STOCK_THRESHOLD", 0)
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", DriverPostgres)
		}
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Redis.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be positive")
	}
	if c.Events.QueueSize <= 0 {
		return fmt.Errorf("EVENT_QUEUE_SIZE must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

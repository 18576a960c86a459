package config

import (
	"time"

	"github.com/AzuraKiko/CBOE-log/pkg/questdb"
	"github.com/AzuraKiko/CBOE-log/pkg/redis"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return err // Return error if environment variable parsing fails
	}

	return nil
}

// Config holds the configuration for the application
type Config struct {
	App     AppConfig      `envPrefix:"APP_"`
	Kafka   KafkaConfig    `envPrefix:"FEED_KAFKA_"`
	Redis   redis.Config   `envPrefix:"REDIS_"`
	QuestDB questdb.Config `envPrefix:"QUESTDB_"`
	Depth   DepthConfig    `envPrefix:"DEPTH_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"depth-service"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// KafkaConfig holds the configuration for the feed-connector Kafka topic.
type KafkaConfig struct {
	Brokers       []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic         string   `env:"TOPIC" envDefault:"cboe-feed"`
	ConsumerGroup string   `env:"CONSUMER_GROUP" envDefault:"depth-service"`
}

// DepthConfig holds the reconstruction parameters.
type DepthConfig struct {
	// Exchange and Source tag every produced level and trade.
	Exchange string `env:"EXCHANGE" envDefault:"CXA"`
	Source   string `env:"SOURCE" envDefault:"CXA"`

	// ReferencePrice splits the book into displayed ask (>=) and bid (<=)
	// levels. Zero disables the price filter.
	ReferencePrice float64 `env:"REFERENCE_PRICE" envDefault:"0"`

	TopN        int `env:"TOP_N" envDefault:"10"`
	LedgerLimit int `env:"LEDGER_LIMIT" envDefault:"50"`

	// Optional replay window, microseconds since epoch. Zero means unbounded.
	WindowStart int64 `env:"WINDOW_START" envDefault:"0"`
	WindowEnd   int64 `env:"WINDOW_END" envDefault:"0"`

	// Interval between periodic reconstruction runs.
	Interval time.Duration `env:"INTERVAL" envDefault:"30s"`
}

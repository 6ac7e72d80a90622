package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the runtime settings of the service.
type Config struct {
	AppPort           string        `mapstructure:"APP_PORT" validate:"required"`
	DatabaseDriver    string        `mapstructure:"DATABASE_DRIVER" validate:"oneof=sqlite postgres memory"`
	DatabaseDSN       string        `mapstructure:"DATABASE_DSN" validate:"required_unless=DatabaseDriver memory"`
	RunMigrations     bool          `mapstructure:"RUN_MIGRATIONS"`
	LogLevel          string        `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	StrictStatusCodes bool          `mapstructure:"STRICT_STATUS_CODES"`
	SeedProducts      bool          `mapstructure:"SEED_PRODUCTS"`
	RabbitMQURL       string        `mapstructure:"RABBITMQ_URL" validate:"omitempty,url"`
	RabbitMQExchange  string        `mapstructure:"RABBITMQ_EXCHANGE" validate:"required"`
	RabbitMQQueue     string        `mapstructure:"RABBITMQ_QUEUE" validate:"required"`
	EventsConsume     bool          `mapstructure:"EVENTS_CONSUME"`
	ShutdownTimeout   time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// EventsEnabled reports whether product events go to RabbitMQ.
func (c Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}

// Load reads the configuration from defaults, an optional file named by
// CONFIG_FILE, and environment variables, in increasing precedence.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "katalog.db")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STRICT_STATUS_CODES", false)
	v.SetDefault("SEED_PRODUCTS", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "product_events")
	v.SetDefault("RABBITMQ_QUEUE", "product_events_queue")
	v.SetDefault("EVENTS_CONSUME", false)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("CONFIG_FILE", "")
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

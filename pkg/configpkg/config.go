// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environement variables.
type Config struct {
	DBDriver             string        `mapstructure:"DB_DRIVER" validate:"required"`
	DBSource             string        `mapstructure:"DB_SOURCE" validate:"required"`
	DBMaxOpenConns       int           `mapstructure:"DB_MAX_OPEN_CONNS" validate:"min=1"`
	RedisAddress         string        `mapstructure:"REDIS_ADDRESS" validate:"required,hostname_port"`
	AMQPSource           string        `mapstructure:"AMQP_SOURCE" validate:"required"`
	ConsumeQueue         string        `mapstructure:"CONSUME_QUEUE" validate:"required"`
	NotificationExchange string        `mapstructure:"NOTIFICATION_EXCHANGE" validate:"required"`
	Concurrency          int           `mapstructure:"CONCURRENCY" validate:"min=1"`
	IdempotencyTTL       time.Duration `mapstructure:"IDEMPOTENCY_TTL" validate:"required"`
	OpsAddress           string        `mapstructure:"OPS_ADDRESS" validate:"required,hostname_port"`
	Environement         string        `mapstructure:"GO_ENV"`
}

// Load read configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = viper.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	if err := validator.New().Struct(c); err != nil {
		return c, err
	}

	return c, nil
}

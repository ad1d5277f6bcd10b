// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environement variables.
type Config struct {
	RedisHost         string        `mapstructure:"REDIS_HOST"`
	RedisPort         string        `mapstructure:"REDIS_PORT"`
	ServerAddress     string        `mapstructure:"SERVER_ADDRESS"`
	DefaultBalance    int64         `mapstructure:"DEFAULT_BALANCE"`
	LockLeaseDuration time.Duration `mapstructure:"LOCK_LEASE_DURATION"`
	LockWaitDuration  time.Duration `mapstructure:"LOCK_WAIT_DURATION"`
	Environement      string        `mapstructure:"GO_ENV"`
}

// Load read configuration from file or environment variables. A missing config
// file is tolerated so deployments can run on environment variables alone.
func Load(path string) (Config, error) {
	var c Config

	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("SERVER_ADDRESS", "0.0.0.0:3000")
	viper.SetDefault("DEFAULT_BALANCE", 100)
	viper.SetDefault("LOCK_LEASE_DURATION", 5*time.Second)
	viper.SetDefault("LOCK_WAIT_DURATION", 3*time.Second)

	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	err = viper.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}

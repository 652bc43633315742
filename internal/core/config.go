// Package core provides the engine and configuration management for rinfobot.
//
// The core package wires the Discord adapter to the dispatch pool and the
// metrics endpoint, and owns their lifecycle:
//
//   - Configuration loading and validation (from an optional YAML file)
//   - Startup and graceful shutdown of the bot, pool and metrics server
//
// # Configuration
//
// Configuration is loaded from a YAML file with the following sections, all
// optional:
//
//   - discord: token, command registration and message cache
//   - dispatcher: worker pool sizing and handler timeout
//   - metrics: Prometheus listen address
//   - logging: log configuration
//
// ${VAR} references are expanded from the environment. The only required
// value is the bot token, which defaults to $DISCORD_TOKEN.
//
// # Example Configuration
//
//	discord:
//	  token: "${DISCORD_TOKEN}"
//	  guild_id: "123456789012345678"
//	dispatcher:
//	  workers: 8
//	  queue_size: 256
//	  handler_timeout: "15s"
//	metrics:
//	  listen: ":9100"
//	logging:
//	  level: info
package core

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/keepmind9/rinfobot/pkg/constants"
	"gopkg.in/yaml.v3"
)

const (
	// TokenEnvVar supplies the bot token when the config file does not
	TokenEnvVar = "DISCORD_TOKEN"

	DefaultLogLevel       = "info"
	DefaultHandlerTimeout = "15s"

	maxHandlerTimeout = 10 * time.Minute
)

// LoadConfig loads configuration from file and expands environment variables.
// An empty path, or a missing file when allowMissing is set, yields the
// defaults.
func LoadConfig(configPath string, allowMissing bool) (*Config, error) {
	var config Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := parseConfig(data, &config); err != nil {
				return nil, err
			}
		case allowMissing && errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if config.Discord.Token == "" {
		config.Discord.Token = os.Getenv(TokenEnvVar)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func parseConfig(data []byte, config *Config) error {
	expandedData, err := expandEnv(string(data))
	if err != nil {
		return fmt.Errorf("failed to expand environment variables: %w", err)
	}

	if err := yaml.Unmarshal([]byte(expandedData), config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// expandEnv replaces ${VAR_NAME} patterns with environment variable values
func expandEnv(input string) (string, error) {
	var missingVars []string

	result := os.Expand(input, func(key string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		missingVars = append(missingVars, key)
		return ""
	})

	if len(missingVars) > 0 {
		return "", fmt.Errorf("missing required environment variables: %s",
			strings.Join(missingVars, ", "))
	}

	return result, nil
}

// validateConfig applies defaults and checks ranges
func validateConfig(config *Config) error {
	config.Discord.Token = strings.TrimSpace(config.Discord.Token)
	if config.Discord.Token == "" {
		return fmt.Errorf("discord.token is required (set it in the config file or via %s)", TokenEnvVar)
	}
	if config.Discord.MessageCacheSize < 0 {
		return fmt.Errorf("discord.message_cache_size cannot be negative (got %d)", config.Discord.MessageCacheSize)
	}
	if config.Discord.MessageCacheSize == 0 {
		config.Discord.MessageCacheSize = constants.DefaultMessageCacheSize
	}

	// Dispatcher
	if config.Dispatcher.Workers == 0 {
		config.Dispatcher.Workers = constants.DefaultWorkers
	}
	if config.Dispatcher.Workers < 1 || config.Dispatcher.Workers > constants.MaxWorkers {
		return fmt.Errorf("dispatcher.workers must be between 1 and %d (got %d)", constants.MaxWorkers, config.Dispatcher.Workers)
	}
	if config.Dispatcher.QueueSize == 0 {
		config.Dispatcher.QueueSize = constants.DefaultQueueSize
	}
	if config.Dispatcher.QueueSize < 1 {
		return fmt.Errorf("dispatcher.queue_size must be positive (got %d)", config.Dispatcher.QueueSize)
	}
	if config.Dispatcher.HandlerTimeout == "" {
		config.Dispatcher.HandlerTimeout = DefaultHandlerTimeout
	}
	timeout, err := time.ParseDuration(config.Dispatcher.HandlerTimeout)
	if err != nil {
		return fmt.Errorf("invalid dispatcher.handler_timeout: %w", err)
	}
	if timeout <= 0 || timeout > maxHandlerTimeout {
		return fmt.Errorf("dispatcher.handler_timeout must be within (0, %v] (got %v)", maxHandlerTimeout, timeout)
	}

	// Logging
	if config.Logging.Level == "" {
		config.Logging.Level = DefaultLogLevel
	}
	if config.Logging.MaxSize == 0 {
		config.Logging.MaxSize = constants.DefaultLogMaxSize
	}
	if config.Logging.MaxBackups == 0 {
		config.Logging.MaxBackups = constants.DefaultLogMaxBackups
	}
	if config.Logging.MaxAge == 0 {
		config.Logging.MaxAge = constants.DefaultLogMaxAge
	}

	return nil
}

// HandlerTimeout returns the parsed dispatcher handler timeout
func (c *Config) HandlerTimeout() time.Duration {
	timeout, err := time.ParseDuration(c.Dispatcher.HandlerTimeout)
	if err != nil || timeout <= 0 {
		return constants.DefaultHandlerTimeout
	}
	return timeout
}

// Package config loads logscan's ambient configuration (log level/format
// and default scan parameters) from a YAML file, environment variables, and
// flags, using viper to layer them.
//
// No other package in this repository imports it; the core pkg/log
// library takes no file, network, or environment input (see pkg/log/doc.go).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds logscan's configuration.
type Config struct {
	Log  LogConfig  `mapstructure:"log"`
	Scan ScanConfig `mapstructure:"scan"`
}

// LogConfig controls the diagnostic logger used while parsing.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or text
}

// ScanConfig holds the default parameters for a logscan invocation. This
// package binds no command-line flags.
type ScanConfig struct {
	File      string   `mapstructure:"file"`
	Programs  []string `mapstructure:"programs"`
	Slot      uint64   `mapstructure:"slot"`
	Signature string   `mapstructure:"signature"`
	TxError   string   `mapstructure:"tx_error"`
}

// DefaultConfig returns logscan's built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Scan: ScanConfig{
			Programs: []string{"*"},
		},
	}
}

// Load reads configuration from configPath (or the default search path when
// empty), layering environment variables (prefixed LOGSCAN_) over the file
// and the file over DefaultConfig.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName(".logscan")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("LOGSCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

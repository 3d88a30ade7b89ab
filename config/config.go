// Package config exposes the two knobs the execution engine needs:
// the sandbox's wall-clock quantum and the chain's genesis timestamp.
package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	defaultExecutionQuantum = 10 * time.Second
	defaultGenesisTimestamp = "2018-06-01T00:00:00"
)

// Config holds the engine's tunables. Zero-value Config is never valid on
// its own; use Load or Default.
type Config struct {
	ExecutionQuantum time.Duration `mapstructure:"execution-quantum"`
	GenesisTimestamp string        `mapstructure:"genesis-timestamp"`
}

// Default returns the Config the engine runs with when no override file
// is supplied.
func Default() Config {
	return Config{
		ExecutionQuantum: defaultExecutionQuantum,
		GenesisTimestamp: defaultGenesisTimestamp,
	}
}

// Load builds a Config from viper's defaults, optionally merged with a
// JSON/YAML/TOML file at path. An empty path returns Default() unchanged.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("execution-quantum", defaultExecutionQuantum)
	v.SetDefault("genesis-timestamp", defaultGenesisTimestamp)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/epfer-chain/sidechain/config"
)

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, 10*time.Second, cfg.ExecutionQuantum)
	require.Equal(t, "2018-06-01T00:00:00", cfg.GenesisTimestamp)
}

func TestLoadWithEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
}

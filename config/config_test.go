package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5*time.Second, cfg.HangupTimeout)
	assert.Equal(t, int32(65), cfg.MinLayer)
	assert.Equal(t, int32(65), cfg.MaxLayer)
	assert.Equal(t, 30*time.Second, cfg.ControllerInitTimeout)
	assert.Equal(t, 10*time.Second, cfg.ControllerRecvTimeout)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CALL_HANGUP_TIMEOUT", "2s")
	t.Setenv("CALL_MIN_LAYER", "60")
	t.Setenv("CALL_MAX_LAYER", "70")
	t.Setenv("CALL_CONTROLLER_RECV_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.HangupTimeout)
	assert.Equal(t, int32(60), cfg.MinLayer)
	assert.Equal(t, int32(70), cfg.MaxLayer)
	assert.Equal(t, 30*time.Second, cfg.ControllerInitTimeout)
	assert.Equal(t, 3*time.Second, cfg.ControllerRecvTimeout)
}

func TestLoadMissingEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")

	_, err := Load()
	assert.Error(t, err)
}

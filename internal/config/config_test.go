package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.TxTimeout())
	assert.Equal(t, 1000, cfg.APIRateLimit)
	assert.Equal(t, 20, cfg.LoginRateLimit)
	assert.Equal(t, 5, cfg.SMTPBreakerFailures)
	assert.Equal(t, 60, cfg.SMTPBreakerCooldownSeconds)
}

func TestTxTimeoutFallsBackWhenUnset(t *testing.T) {
	assert.Equal(t, 15*time.Second, (&Config{}).TxTimeout())
	assert.Equal(t, 45*time.Second, (&Config{TxTimeoutSeconds: 45}).TxTimeout())
}

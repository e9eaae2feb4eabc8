package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags_Overrides(t *testing.T) {
	withArgs(t, []string{"-a", ":7070", "-s", "flag-secret", "-t", "20", "-r", "120"})

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "flag-secret", cfg.SecretKey)
	assert.Equal(t, 20*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 2*time.Hour, cfg.RefreshTokenValidityDuration)
}

func TestParseFlags_UnrelatedFlagsIgnored(t *testing.T) {
	withArgs(t, []string{"-unknown", "x", "-d", "postgres://flag"})

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "postgres://flag", cfg.DatabaseDSN)
}

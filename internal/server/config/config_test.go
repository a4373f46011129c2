package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gachaserver/internal/flagx"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, StorageMemory, c.Storage)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenValidityDuration)
	assert.True(t, c.VerifyAccessTokens)
	assert.Equal(t, 10000, c.HashIterations)
	assert.Equal(t, 64, c.HashKeyLength)
	assert.Equal(t, 128, c.SaltSize)
	assert.Equal(t, 12*time.Hour, c.BoosterCooldown)
	assert.Equal(t, 2, c.MaxBoosterSlots)
	assert.Equal(t, 2, c.InitialBoosterSlots)
	assert.Equal(t, 10, c.StartingCoins)
	assert.Equal(t, 1, c.CardSellValue)
	assert.Equal(t, 1, c.DefaultBoosterPrice)
	assert.NotEqual(t, c.AccessTokenSecret, c.RefreshTokenSecret)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_DefaultsWithoutArgs(t *testing.T) {
	t.Setenv(flagx.ConfigEnvName, "")

	c, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), c))
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	t.Setenv(flagx.ConfigEnvName, "")
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint_addr_grpc": "json:1", "storage": "postgres"}`), 0o600))

	c, err := LoadConfig([]string{"-c", path, "-a", "flag:2"})
	require.NoError(t, err)
	assert.Equal(t, "flag:2", c.EndpointAddrGRPC)
	assert.Equal(t, StoragePostgres, c.Storage)
}

func TestLoadConfig_SubMinuteJSONDurations(t *testing.T) {
	t.Setenv(flagx.ConfigEnvName, "")
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token_validity_duration": "90s", "refresh_token_validity_duration": "30s"}`), 0o600))

	c, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, c.AccessTokenValidityDuration)
	assert.Equal(t, 30*time.Second, c.RefreshTokenValidityDuration)

	c, err = LoadConfig([]string{"-c", path, "-t", "2"})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 30*time.Second, c.RefreshTokenValidityDuration)
}

func TestLoadConfig_InvalidIsRejected(t *testing.T) {
	t.Setenv(flagx.ConfigEnvName, "")

	_, err := LoadConfig([]string{"-s", "same", "-k", "same"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown storage", func(c *Config) { c.Storage = "redis" }},
		{"empty secret", func(c *Config) { c.AccessTokenSecret = "" }},
		{"zero ttl", func(c *Config) { c.AccessTokenValidityDuration = 0 }},
		{"zero iterations", func(c *Config) { c.HashIterations = 0 }},
		{"initial above max", func(c *Config) { c.InitialBoosterSlots = 3 }},
		{"zero cooldown", func(c *Config) { c.BoosterCooldown = 0 }},
		{"negative coins", func(c *Config) { c.StartingCoins = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		initial  func() *Config
		expected func() *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-m", ":9100", "-l", "debug", "-b", "postgres", "-d", "db",
				"-s", "access", "-k", "refresh", "-t", "5", "-r", "60", "-i", "20000",
			},
			expected: func() *Config {
				c := defaults()
				c.EndpointAddrGRPC = "127.0.0.1:9090"
				c.MetricsAddr = ":9100"
				c.LogLevel = "debug"
				c.Storage = StoragePostgres
				c.DatabaseDSN = "db"
				c.AccessTokenSecret = "access"
				c.RefreshTokenSecret = "refresh"
				c.AccessTokenValidityDuration = 5 * time.Minute
				c.RefreshTokenValidityDuration = time.Hour
				c.HashIterations = 20000
				return c
			},
		},
		{
			name:     "unknown flags ignored",
			args:     []string{"-test.v", "-x", "1"},
			expected: defaults,
		},
		{
			name: "unset minute flags keep durations",
			args: []string{"-a", ":1"},
			initial: func() *Config {
				c := defaults()
				c.AccessTokenValidityDuration = 90 * time.Second
				c.RefreshTokenValidityDuration = 30 * time.Second
				return c
			},
			expected: func() *Config {
				c := defaults()
				c.EndpointAddrGRPC = ":1"
				c.AccessTokenValidityDuration = 90 * time.Second
				c.RefreshTokenValidityDuration = 30 * time.Second
				return c
			},
		},
		{
			name:    "bad int",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			if tt.initial != nil {
				c = tt.initial()
			}
			err := parseFlags(c, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected(), c))
		})
	}
}

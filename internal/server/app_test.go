package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gachaserver/internal/logging"
	"github.com/dmitrijs2005/gachaserver/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.Storage = config.StorageMemory
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.MetricsAddr = "127.0.0.1:0"
	return c
}

func TestNewApp_Memory(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(), logging.Nop())
	require.NoError(t, err)
	assert.NotNil(t, app.sessions)
	assert.Nil(t, app.db)
}

func TestNewApp_UnknownStorage(t *testing.T) {
	c := memoryConfig()
	c.Storage = "redis"
	_, err := NewApp(context.Background(), c, logging.Nop())
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestNewApp_PostgresUnreachable(t *testing.T) {
	orig := openPostgres
	openPostgres = func(ctx context.Context, dsn string) (*sql.DB, error) {
		return nil, errors.New("ping database: connection refused")
	}
	defer func() { openPostgres = orig }()

	c := memoryConfig()
	c.Storage = config.StoragePostgres
	_, err := NewApp(context.Background(), c, logging.Nop())
	assert.ErrorContains(t, err, "connection refused")
}

func TestRun_StopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(), logging.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRun_BadGRPCAddress(t *testing.T) {
	c := memoryConfig()
	c.EndpointAddrGRPC = "127.0.0.1:99999"
	app, err := NewApp(context.Background(), c, logging.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.Error(t, app.Run(ctx))
}

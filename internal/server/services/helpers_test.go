package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"github.com/dmitrijs2005/gachaserver/internal/logging"
	"github.com/dmitrijs2005/gachaserver/internal/server/auth"
	"github.com/dmitrijs2005/gachaserver/internal/server/config"
	"github.com/dmitrijs2005/gachaserver/internal/server/models"
	"github.com/dmitrijs2005/gachaserver/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gachaserver/internal/timex"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	// cheap hashing keeps the suite fast; the parameters are not under test here
	cfg.HashIterations = 2
	cfg.SaltSize = 16
	return cfg
}

type fixture struct {
	cfg      *config.Config
	repo     accounts.Repository
	clock    *timex.ManualClock
	accounts *AccountService
	economy  *EconomyService
}

func newFixture(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()
	clock := timex.NewManualClock(t0)
	return newFixtureWithClock(t, cfg, clock, accounts.NewMemoryRepository(clock))
}

func newFixtureWithRepo(t *testing.T, cfg *config.Config, repo accounts.Repository) *fixture {
	t.Helper()
	return newFixtureWithClock(t, cfg, timex.NewManualClock(t0), repo)
}

func newFixtureWithClock(t *testing.T, cfg *config.Config, clock *timex.ManualClock, repo accounts.Repository) *fixture {
	t.Helper()
	hasher := auth.NewPasswordHasher(cfg.HashIterations, cfg.HashKeyLength, cfg.SaltSize)
	return &fixture{
		cfg:      cfg,
		repo:     repo,
		clock:    clock,
		accounts: NewAccountService(repo, hasher, clock, cfg, logging.Nop()),
		economy:  NewEconomyService(repo, clock, cfg, logging.Nop()),
	}
}

func (f *fixture) register(t *testing.T, name string) *models.Account {
	t.Helper()
	a, err := f.accounts.Register(context.Background(), name, "pw-"+name)
	require.NoError(t, err)
	return a
}

func (f *fixture) load(t *testing.T, name string) *models.Account {
	t.Helper()
	a, err := f.repo.Find(context.Background(), name)
	require.NoError(t, err)
	return a
}

// conflictingRepo reports a version conflict on the first n updates.
type conflictingRepo struct {
	accounts.Repository
	remaining atomic.Int32
	updates   atomic.Int32
}

func (r *conflictingRepo) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	r.updates.Add(1)
	if r.remaining.Add(-1) >= 0 {
		return nil, common.ErrVersionConflict
	}
	return r.Repository.Update(ctx, a)
}

// brokenRepo fails every call with a storage fault.
type brokenRepo struct{}

var errStorage = errors.New("connection reset")

func (brokenRepo) Find(context.Context, string) (*models.Account, error) { return nil, errStorage }
func (brokenRepo) Insert(context.Context, *models.Account) (*models.Account, error) {
	return nil, errStorage
}
func (brokenRepo) Update(context.Context, *models.Account) (*models.Account, error) {
	return nil, errStorage
}
func (brokenRepo) Delete(context.Context, string) error { return errStorage }

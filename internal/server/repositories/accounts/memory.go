package accounts

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"github.com/dmitrijs2005/gachaserver/internal/server/models"
	"github.com/dmitrijs2005/gachaserver/internal/timex"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. CreatedAt is stamped
// from clock.
type MemoryRepository struct {
	mu     sync.RWMutex
	clock  timex.Clock
	byName map[string]*models.Account
	byID   map[string]string
}

func NewMemoryRepository(clock timex.Clock) *MemoryRepository {
	return &MemoryRepository{
		clock:  clock,
		byName: make(map[string]*models.Account),
		byID:   make(map[string]string),
	}
}

func (r *MemoryRepository) Find(ctx context.Context, name string) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a.Clone(), nil
}

func (r *MemoryRepository) Insert(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byName[account.Name]; taken {
		return nil, common.ErrorAlreadyExists
	}

	stored := account.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.Version = 1
	stored.CreatedAt = r.clock.Now()

	r.byName[stored.Name] = stored
	r.byID[stored.ID] = stored.Name
	return stored.Clone(), nil
}

func (r *MemoryRepository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	currentName, ok := r.byID[account.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	current := r.byName[currentName]
	if current.Version != account.Version {
		return nil, common.ErrVersionConflict
	}
	if account.Name != currentName {
		if _, taken := r.byName[account.Name]; taken {
			return nil, common.ErrorAlreadyExists
		}
	}

	stored := account.Clone()
	stored.Version = current.Version + 1
	stored.CreatedAt = current.CreatedAt

	delete(r.byName, currentName)
	r.byName[stored.Name] = stored
	r.byID[stored.ID] = stored.Name
	return stored.Clone(), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byName[name]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byName, name)
	delete(r.byID, a.ID)
	return nil
}

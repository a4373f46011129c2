// Package accounts is the credential and economy record store, keyed by
// unique username.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gachaserver/internal/server/models"
)

// Repository is the narrow persistence contract the services depend on.
//
//   - Find returns common.ErrorNotFound when name is unknown.
//   - Insert assigns ID, Version and CreatedAt; a taken name is common.ErrorAlreadyExists.
//   - Update writes the record identified by account.ID only if its stored
//     version still equals account.Version, then bumps the version. A stale
//     version is common.ErrVersionConflict, a vanished record
//     common.ErrorNotFound, a name collision common.ErrorAlreadyExists.
//   - Delete returns common.ErrorNotFound when name is unknown.
//
// Returned accounts are never shared with the store.
type Repository interface {
	Find(ctx context.Context, name string) (*models.Account, error)
	Insert(ctx context.Context, account *models.Account) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) (*models.Account, error)
	Delete(ctx context.Context, name string) error
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gachaserver/internal/server/repositories/accounts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db accounts.DB) accounts.Repository
}

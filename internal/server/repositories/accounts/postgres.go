package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"github.com/dmitrijs2005/gachaserver/internal/dbx"
	"github.com/dmitrijs2005/gachaserver/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is what PostgresRepository needs from *sql.DB.
type DB interface {
	dbx.DBTX
	dbx.TxBeginner
}

// PostgresRepository stores accounts in the accounts table. Collection and
// booster slots are JSONB arrays.
type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectAccount = `SELECT id, name, password_hash, salt, coins, collection, booster_slots, last_booster_claim, version, created_at
		 FROM accounts
		 WHERE name = $1`

func (r *PostgresRepository) Find(ctx context.Context, name string) (*models.Account, error) {
	var (
		a          models.Account
		collection []byte
		slots      []byte
	)
	err := r.db.QueryRowContext(ctx, selectAccount, name).Scan(
		&a.ID, &a.Name, &a.PasswordHash, &a.Salt, &a.Coins,
		&collection, &slots, &a.LastBoosterClaim, &a.Version, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(collection, &a.Collection); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	if err := json.Unmarshal(slots, &a.BoosterSlots); err != nil {
		return nil, fmt.Errorf("decode booster slots: %w", err)
	}
	return a.Clone(), nil
}

func (r *PostgresRepository) Insert(ctx context.Context, account *models.Account) (*models.Account, error) {
	a := account.Clone()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Version = 1

	collection, slots, err := encodeArrays(a)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO accounts (id, name, password_hash, salt, coins, collection, booster_slots, last_booster_claim, version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`

	err = r.db.QueryRowContext(ctx, query,
		a.ID, a.Name, a.PasswordHash, a.Salt, a.Coins, collection, slots, a.LastBoosterClaim, a.Version,
	).Scan(&a.CreatedAt)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return a, nil
}

func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	a := account.Clone()
	collection, slots, err := encodeArrays(a)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE accounts
		 SET name = $3, password_hash = $4, salt = $5, coins = $6, collection = $7,
		     booster_slots = $8, last_booster_claim = $9, version = version + 1
		 WHERE id = $1 AND version = $2`

	err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, query,
			a.ID, a.Version, a.Name, a.PasswordHash, a.Salt, a.Coins, collection, slots, a.LastBoosterClaim)
		if err != nil {
			return mapWriteError(err)
		}
		ok, err := dbx.RowsAffectedOne(res)
		if err != nil {
			return fmt.Errorf("rows affected error: %w", err)
		}
		if ok {
			return nil
		}

		// nothing matched: either the record is gone or someone else won
		var exists int
		err = tx.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE id = $1`, a.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return common.ErrVersionConflict
	})
	if err != nil {
		return nil, err
	}

	a.Version++
	return a, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ok, err := dbx.RowsAffectedOne(res)
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if !ok {
		return common.ErrorNotFound
	}
	return nil
}

func encodeArrays(a *models.Account) (string, string, error) {
	collection, err := json.Marshal(a.Collection)
	if err != nil {
		return "", "", fmt.Errorf("encode collection: %w", err)
	}
	slots, err := json.Marshal(utcSlots(a.BoosterSlots))
	if err != nil {
		return "", "", fmt.Errorf("encode booster slots: %w", err)
	}
	return string(collection), string(slots), nil
}

func utcSlots(slots []time.Time) []time.Time {
	out := make([]time.Time, len(slots))
	for i, s := range slots {
		out[i] = s.UTC()
	}
	return out
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return common.ErrorAlreadyExists
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%w: %s", common.ErrorValidation, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("db error: %w", err)
}

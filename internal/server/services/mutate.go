package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"github.com/dmitrijs2005/gachaserver/internal/server/models"
	"github.com/dmitrijs2005/gachaserver/internal/server/repositories/accounts"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

const (
	mutationRetries    = 16
	mutationBackoff    = time.Millisecond
	mutationMaxBackoff = 50 * time.Millisecond
)

// mutateFunc edits a private copy of the account. Returning changed=false
// skips the write; any error aborts the mutation as is.
type mutateFunc func(a *models.Account) (changed bool, err error)

// mutator applies read-modify-write cycles to one account record using the
// store's version check, re-reading and re-applying fn when another writer
// got there first.
type mutator struct {
	repo     accounts.Repository
	maxSlots int
}

func (m *mutator) mutate(ctx context.Context, name string, fn mutateFunc) (*models.Account, error) {
	var result *models.Account

	backoff := retry.WithMaxRetries(mutationRetries,
		retry.WithCappedDuration(mutationMaxBackoff, retry.NewExponential(mutationBackoff)))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		current, err := m.repo.Find(ctx, name)
		if err != nil {
			return err
		}

		next := current.Clone()
		changed, err := fn(next)
		if err != nil {
			return err
		}
		if !changed {
			result = current
			return nil
		}
		if err := next.Validate(m.maxSlots); err != nil {
			return err
		}

		updated, err := m.repo.Update(ctx, next)
		if errors.Is(err, common.ErrVersionConflict) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			return nil, oops.In("accounts").
				Code(common.KindInternal.Code()).
				With("name", name, "retries", mutationRetries).
				Wrapf(err, "too much contention on account")
		}
		return nil, err
	}
	return result, nil
}

// notFound decorates a store miss for name; other errors pass through.
func notFound(domain, name string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return oops.In(domain).Code(common.KindNotFound.Code()).With("name", name).Wrap(err)
	}
	return err
}

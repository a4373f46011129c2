// Package services contains server-side business logic: the account manager,
// the booster economy and the session façade that fronts both.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"github.com/dmitrijs2005/gachaserver/internal/logging"
	"github.com/dmitrijs2005/gachaserver/internal/server/auth"
	"github.com/dmitrijs2005/gachaserver/internal/server/config"
	"github.com/dmitrijs2005/gachaserver/internal/server/models"
	"github.com/dmitrijs2005/gachaserver/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gachaserver/internal/timex"
	"github.com/samber/oops"
)

// AccountService owns the credential fields of an account: registration,
// login, rename, password change and deletion.
type AccountService struct {
	repo          accounts.Repository
	hasher        *auth.PasswordHasher
	clock         timex.Clock
	mut           *mutator
	startingCoins int
	initialSlots  int
	maxSlots      int
	logger        logging.Logger
}

func NewAccountService(repo accounts.Repository, hasher *auth.PasswordHasher, clock timex.Clock, cfg *config.Config, logger logging.Logger) *AccountService {
	return &AccountService{
		repo:          repo,
		hasher:        hasher,
		clock:         clock,
		mut:           &mutator{repo: repo, maxSlots: cfg.MaxBoosterSlots},
		startingCoins: cfg.StartingCoins,
		initialSlots:  cfg.InitialBoosterSlots,
		maxSlots:      cfg.MaxBoosterSlots,
		logger:        logger.With("module", "accounts"),
	}
}

func validation(msg string, args ...any) error {
	return oops.In("accounts").Code(common.KindValidation.Code()).With(args...).Wrapf(common.ErrorValidation, "%s", msg)
}

// Register creates an account with fresh credentials, the starting coin grant
// and the initial banked boosters, all stamped with the current time.
func (s *AccountService) Register(ctx context.Context, name, password string) (*models.Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validation("name is required")
	}
	if password == "" {
		return nil, validation("password is required")
	}

	salt, err := s.hasher.NewSalt()
	if err != nil {
		return nil, err
	}
	digest, err := s.hasher.Hash(password, salt)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	slots := make([]time.Time, s.initialSlots)
	for i := range slots {
		slots[i] = now
	}

	account := &models.Account{
		Name:             name,
		PasswordHash:     digest,
		Salt:             salt,
		Coins:            s.startingCoins,
		Collection:       []int{},
		BoosterSlots:     slots,
		LastBoosterClaim: now,
	}
	if err := account.Validate(s.maxSlots); err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, oops.In("accounts").Code(common.KindAlreadyExists.Code()).With("name", name).Wrap(err)
		}
		return nil, err
	}

	s.logger.Info(ctx, "account registered", "name", name)
	return created, nil
}

// Login returns the account if password matches. An unknown name is
// ErrorNotFound, a wrong password ErrorInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, name, password string) (*models.Account, error) {
	if strings.TrimSpace(name) == "" || password == "" {
		return nil, validation("name and password are required")
	}

	account, err := s.repo.Find(ctx, name)
	if err != nil {
		return nil, notFound("accounts", name, err)
	}

	if err := s.checkPassword(account, password); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) checkPassword(account *models.Account, password string) error {
	ok, err := s.hasher.Verify(account.PasswordHash, password, account.Salt)
	if err != nil {
		return err
	}
	if !ok {
		return oops.In("accounts").
			Code(common.KindInvalidCredentials.Code()).
			With("name", account.Name).
			Wrap(common.ErrorInvalidCredentials)
	}
	return nil
}

// Get returns the account stored under name.
func (s *AccountService) Get(ctx context.Context, name string) (*models.Account, error) {
	account, err := s.repo.Find(ctx, name)
	if err != nil {
		return nil, notFound("accounts", name, err)
	}
	return account, nil
}

// Rename re-keys the account under newName. Tokens bound to the old name are
// not touched; issuing new ones is up to the caller.
func (s *AccountService) Rename(ctx context.Context, name, newName string) (*models.Account, error) {
	if strings.TrimSpace(newName) == "" {
		return nil, validation("new name is required")
	}
	if newName == name {
		return nil, oops.In("accounts").Code(common.KindAlreadyExists.Code()).With("name", newName).Wrap(common.ErrorAlreadyExists)
	}

	account, err := s.mut.mutate(ctx, name, func(a *models.Account) (bool, error) {
		a.Name = newName
		return true, nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, oops.In("accounts").Code(common.KindAlreadyExists.Code()).With("name", newName).Wrap(err)
		}
		return nil, notFound("accounts", name, err)
	}

	s.logger.Info(ctx, "account renamed", "name", name, "new_name", newName)
	return account, nil
}

// ChangePassword checks currentPassword and replaces both salt and digest.
func (s *AccountService) ChangePassword(ctx context.Context, name, currentPassword, newPassword string) error {
	if newPassword == "" {
		return validation("new password is required")
	}

	_, err := s.mut.mutate(ctx, name, func(a *models.Account) (bool, error) {
		if err := s.checkPassword(a, currentPassword); err != nil {
			return false, err
		}
		salt, err := s.hasher.NewSalt()
		if err != nil {
			return false, err
		}
		digest, err := s.hasher.Hash(newPassword, salt)
		if err != nil {
			return false, err
		}
		a.Salt = salt
		a.PasswordHash = digest
		return true, nil
	})
	if err != nil {
		return notFound("accounts", name, err)
	}

	s.logger.Info(ctx, "password changed", "name", name)
	return nil
}

// Delete removes the account permanently.
func (s *AccountService) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return notFound("accounts", name, err)
	}
	s.logger.Info(ctx, "account deleted", "name", name)
	return nil
}

package services

import (
	"context"
	"slices"
	"time"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"github.com/dmitrijs2005/gachaserver/internal/logging"
	"github.com/dmitrijs2005/gachaserver/internal/server/config"
	"github.com/dmitrijs2005/gachaserver/internal/server/models"
	"github.com/dmitrijs2005/gachaserver/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gachaserver/internal/timex"
	"github.com/samber/oops"
)

// DuplicateCardCredit is what a card that is already owned converts to.
const DuplicateCardCredit = 1

// EconomyService owns coins, collection and booster slots. Every operation is
// one atomic read-modify-write of the account; a failed precondition leaves
// the record untouched.
type EconomyService struct {
	mut          *mutator
	repo         accounts.Repository
	clock        timex.Clock
	cooldown     time.Duration
	maxSlots     int
	sellValue    int
	defaultPrice int
	logger       logging.Logger
}

func NewEconomyService(repo accounts.Repository, clock timex.Clock, cfg *config.Config, logger logging.Logger) *EconomyService {
	return &EconomyService{
		mut:          &mutator{repo: repo, maxSlots: cfg.MaxBoosterSlots},
		repo:         repo,
		clock:        clock,
		cooldown:     cfg.BoosterCooldown,
		maxSlots:     cfg.MaxBoosterSlots,
		sellValue:    cfg.CardSellValue,
		defaultPrice: cfg.DefaultBoosterPrice,
		logger:       logger.With("module", "economy"),
	}
}

func economyError(kind common.Kind, sentinel error, args ...any) error {
	return oops.In("economy").Code(kind.Code()).With(args...).Wrap(sentinel)
}

// CheckAndClaim applies the regeneration rule once at now and returns the
// resulting slot count. A full bank is not an error.
func (s *EconomyService) CheckAndClaim(ctx context.Context, name string, now time.Time) (int, error) {
	var granted bool
	account, err := s.mut.mutate(ctx, name, func(a *models.Account) (bool, error) {
		granted = regenerate(a, now, s.cooldown, s.maxSlots)
		return granted, nil
	})
	if err != nil {
		return 0, notFound("economy", name, err)
	}
	if granted {
		s.logger.Debug(ctx, "booster slot granted", "name", name, "slots", len(account.BoosterSlots))
	}
	return len(account.BoosterSlots), nil
}

// ClaimBooster banks a slot stamped now regardless of cooldown. A full bank
// is ErrSlotLimitExceeded.
func (s *EconomyService) ClaimBooster(ctx context.Context, name string, now time.Time) (int, error) {
	account, err := s.mut.mutate(ctx, name, func(a *models.Account) (bool, error) {
		if len(a.BoosterSlots) >= s.maxSlots {
			return false, economyError(common.KindSlotLimitExceeded, common.ErrSlotLimitExceeded,
				"name", name, "slots", len(a.BoosterSlots))
		}
		a.BoosterSlots = append(a.BoosterSlots, now)
		a.LastBoosterClaim = now
		return true, nil
	})
	if err != nil {
		return 0, notFound("economy", name, err)
	}
	return len(account.BoosterSlots), nil
}

// UseBooster consumes the oldest banked slot and returns how many remain.
func (s *EconomyService) UseBooster(ctx context.Context, name string) (int, error) {
	account, err := s.mut.mutate(ctx, name, func(a *models.Account) (bool, error) {
		if !takeOldest(a) {
			return false, economyError(common.KindNoBoosterAvailable, common.ErrNoBoosterAvailable, "name", name)
		}
		a.LastBoosterClaim = s.clock.Now()
		return true, nil
	})
	if err != nil {
		return 0, notFound("economy", name, err)
	}
	return len(account.BoosterSlots), nil
}

// Price resolves the price actually charged: zero means the default price.
func (s *EconomyService) Price(price int) int {
	if price == 0 {
		return s.defaultPrice
	}
	return price
}

// BuyBooster deducts price and returns the new balance. It grants no slot;
// the caller reveals the purchased cards through AddCards.
func (s *EconomyService) BuyBooster(ctx context.Context, name string, price int) (int, error) {
	if price < 0 {
		return 0, economyError(common.KindValidation, common.ErrorValidation, "price", price)
	}
	price = s.Price(price)

	account, err := s.mut.mutate(ctx, name, func(a *models.Account) (bool, error) {
		if a.Coins < price {
			return false, economyError(common.KindInsufficientFunds, common.ErrInsufficientFunds,
				"name", name, "coins", a.Coins, "price", price)
		}
		a.Coins -= price
		return true, nil
	})
	if err != nil {
		return 0, notFound("economy", name, err)
	}
	return account.Coins, nil
}

// SellCard removes cardID from the collection for a fixed credit and returns
// the new balance.
func (s *EconomyService) SellCard(ctx context.Context, name string, cardID int) (int, error) {
	account, err := s.mut.mutate(ctx, name, func(a *models.Account) (bool, error) {
		idx := slices.Index(a.Collection, cardID)
		if idx < 0 {
			return false, economyError(common.KindCardNotOwned, common.ErrCardNotOwned, "name", name, "card_id", cardID)
		}
		a.Collection = slices.Delete(a.Collection, idx, idx+1)
		a.Coins += s.sellValue
		return true, nil
	})
	if err != nil {
		return 0, notFound("economy", name, err)
	}
	return account.Coins, nil
}

// AddCards inserts each unowned card and converts each already owned one,
// including repeats within cardIDs, into DuplicateCardCredit coins. It returns
// the updated collection and the number of duplicates credited.
func (s *EconomyService) AddCards(ctx context.Context, name string, cardIDs []int) ([]int, int, error) {
	for _, id := range cardIDs {
		if id <= 0 {
			return nil, 0, economyError(common.KindValidation, common.ErrorValidation, "card_id", id)
		}
	}

	var duplicates int
	account, err := s.mut.mutate(ctx, name, func(a *models.Account) (bool, error) {
		duplicates = 0
		for _, id := range cardIDs {
			if a.Owns(id) {
				a.Coins += DuplicateCardCredit
				duplicates++
				continue
			}
			a.Collection = append(a.Collection, id)
		}
		return len(cardIDs) > 0, nil
	})
	if err != nil {
		return nil, 0, notFound("economy", name, err)
	}
	return account.Collection, duplicates, nil
}

// Collection returns the owned card ids in insertion order.
func (s *EconomyService) Collection(ctx context.Context, name string) ([]int, error) {
	account, err := s.repo.Find(ctx, name)
	if err != nil {
		return nil, notFound("economy", name, err)
	}
	return account.Collection, nil
}

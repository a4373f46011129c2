package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"github.com/dmitrijs2005/gachaserver/internal/logging"
	"github.com/dmitrijs2005/gachaserver/internal/server/auth"
	"github.com/dmitrijs2005/gachaserver/internal/server/config"
	"github.com/dmitrijs2005/gachaserver/internal/server/metrics"
	"github.com/dmitrijs2005/gachaserver/internal/server/models"
	"github.com/dmitrijs2005/gachaserver/internal/timex"
)

// Operation names, used as metric labels and log attributes.
const (
	OpRegister          = "register"
	OpLogin             = "login"
	OpRefresh           = "refresh"
	OpGetProfile        = "get_profile"
	OpRename            = "rename"
	OpChangePassword    = "change_password"
	OpDeleteAccount     = "delete_account"
	OpGetCollection     = "get_collection"
	OpSellCard          = "sell_card"
	OpAddCards          = "add_cards"
	OpCheckBoosterSlots = "check_booster_slots"
	OpUseBooster        = "use_booster"
	OpBuyBooster        = "buy_booster"
)

// SessionService is the request-level façade: it resolves the caller from a
// token, runs one account or economy operation and records the outcome.
type SessionService struct {
	accounts     *AccountService
	economy      *EconomyService
	tokens       *auth.TokenIssuer
	clock        timex.Clock
	verifyAccess bool
	metrics      *metrics.Metrics
	logger       logging.Logger
}

func NewSessionService(
	accounts *AccountService,
	economy *EconomyService,
	tokens *auth.TokenIssuer,
	clock timex.Clock,
	cfg *config.Config,
	m *metrics.Metrics,
	logger logging.Logger,
) *SessionService {
	return &SessionService{
		accounts:     accounts,
		economy:      economy,
		tokens:       tokens,
		clock:        clock,
		verifyAccess: cfg.VerifyAccessTokens,
		metrics:      m,
		logger:       logger.With("module", "session"),
	}
}

func (s *SessionService) observe(ctx context.Context, op string, start time.Time, err *error) {
	s.metrics.ObserveOperation(op, *err, time.Since(start))
	if *err == nil {
		return
	}
	if kind := common.KindOf(*err); kind == common.KindInternal {
		s.logger.Error(ctx, "operation failed", "operation", op, "error", *err)
	} else {
		s.logger.Debug(ctx, "operation rejected", "operation", op, "kind", string(kind), "error", *err)
	}
}

// identity resolves the username an access token is bound to.
func (s *SessionService) identity(accessToken string) (string, error) {
	if s.verifyAccess {
		return s.tokens.VerifyAccess(accessToken)
	}
	return s.tokens.DecodeUnsafe(accessToken)
}

func (s *SessionService) issuePair(name string) (*models.TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(name)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(name)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *SessionService) Register(ctx context.Context, name, password string) (err error) {
	defer s.observe(ctx, OpRegister, time.Now(), &err)
	if _, err = s.accounts.Register(ctx, name, password); err != nil {
		return err
	}
	s.metrics.AccountRegistered()
	return nil
}

func (s *SessionService) Login(ctx context.Context, name, password string) (pair *models.TokenPair, err error) {
	defer s.observe(ctx, OpLogin, time.Now(), &err)
	account, err := s.accounts.Login(ctx, name, password)
	if err != nil {
		return nil, err
	}
	return s.issuePair(account.Name)
}

// Refresh trades a valid refresh token for a new pair bound to the same name.
// The presented token is not revoked.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (pair *models.TokenPair, err error) {
	defer s.observe(ctx, OpRefresh, time.Now(), &err)
	name, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	return s.issuePair(name)
}

func (s *SessionService) GetProfile(ctx context.Context, accessToken string) (profile *models.Profile, err error) {
	defer s.observe(ctx, OpGetProfile, time.Now(), &err)
	name, err := s.identity(accessToken)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return account.Profile(), nil
}

// Rename moves the caller to newName and returns tokens bound to it.
func (s *SessionService) Rename(ctx context.Context, accessToken, newName string) (profile *models.Profile, pair *models.TokenPair, err error) {
	defer s.observe(ctx, OpRename, time.Now(), &err)
	name, err := s.identity(accessToken)
	if err != nil {
		return nil, nil, err
	}
	account, err := s.accounts.Rename(ctx, name, newName)
	if err != nil {
		return nil, nil, err
	}
	pair, err = s.issuePair(account.Name)
	if err != nil {
		return nil, nil, err
	}
	return account.Profile(), pair, nil
}

func (s *SessionService) ChangePassword(ctx context.Context, accessToken, currentPassword, newPassword string) (err error) {
	defer s.observe(ctx, OpChangePassword, time.Now(), &err)
	name, err := s.identity(accessToken)
	if err != nil {
		return err
	}
	return s.accounts.ChangePassword(ctx, name, currentPassword, newPassword)
}

func (s *SessionService) DeleteAccount(ctx context.Context, accessToken string) (err error) {
	defer s.observe(ctx, OpDeleteAccount, time.Now(), &err)
	name, err := s.identity(accessToken)
	if err != nil {
		return err
	}
	if err = s.accounts.Delete(ctx, name); err != nil {
		return err
	}
	s.metrics.AccountDeleted()
	return nil
}

func (s *SessionService) GetCollection(ctx context.Context, accessToken string) (collection []int, err error) {
	defer s.observe(ctx, OpGetCollection, time.Now(), &err)
	name, err := s.identity(accessToken)
	if err != nil {
		return nil, err
	}
	return s.economy.Collection(ctx, name)
}

func (s *SessionService) SellCard(ctx context.Context, accessToken string, cardID int) (coins int, err error) {
	defer s.observe(ctx, OpSellCard, time.Now(), &err)
	name, err := s.identity(accessToken)
	if err != nil {
		return 0, err
	}
	return s.economy.SellCard(ctx, name, cardID)
}

func (s *SessionService) AddCards(ctx context.Context, accessToken string, cardIDs []int) (collection []int, err error) {
	defer s.observe(ctx, OpAddCards, time.Now(), &err)
	name, err := s.identity(accessToken)
	if err != nil {
		return nil, err
	}
	collection, duplicates, err := s.economy.AddCards(ctx, name, cardIDs)
	if err != nil {
		return nil, err
	}
	s.metrics.DuplicatesCredited(duplicates)
	return collection, nil
}

// CheckBoosterSlots runs regeneration at the current time and returns the
// banked slot count.
func (s *SessionService) CheckBoosterSlots(ctx context.Context, accessToken string) (slots int, err error) {
	defer s.observe(ctx, OpCheckBoosterSlots, time.Now(), &err)
	name, err := s.identity(accessToken)
	if err != nil {
		return 0, err
	}
	return s.economy.CheckAndClaim(ctx, name, s.clock.Now())
}

func (s *SessionService) UseBooster(ctx context.Context, accessToken string) (remaining int, err error) {
	defer s.observe(ctx, OpUseBooster, time.Now(), &err)
	name, err := s.identity(accessToken)
	if err != nil {
		return 0, err
	}
	remaining, err = s.economy.UseBooster(ctx, name)
	if err != nil {
		return 0, err
	}
	s.metrics.BoosterUsed()
	return remaining, nil
}

// BuyBooster charges price, or the default price when price is zero.
func (s *SessionService) BuyBooster(ctx context.Context, accessToken string, price int) (coins int, err error) {
	defer s.observe(ctx, OpBuyBooster, time.Now(), &err)
	name, err := s.identity(accessToken)
	if err != nil {
		return 0, err
	}
	coins, err = s.economy.BuyBooster(ctx, name, price)
	if err != nil {
		return 0, err
	}
	s.metrics.CoinsSpentAdd(s.economy.Price(price))
	return coins, nil
}

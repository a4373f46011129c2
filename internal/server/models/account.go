package models

import (
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"github.com/samber/oops"
)

// Account is the persistent identity and economy record of one player.
// Name is the unique key; ID is a surrogate used by the store.
type Account struct {
	ID               string
	Name             string
	PasswordHash     string
	Salt             string
	Coins            int
	Collection       []int
	BoosterSlots     []time.Time
	LastBoosterClaim time.Time
	Version          int64
	CreatedAt        time.Time
}

// Validate enforces the record invariants: non-empty name and credentials,
// non-negative coins, no duplicate cards, at most maxSlots banked boosters.
func (a *Account) Validate(maxSlots int) error {
	e := oops.In("account").Code(common.KindValidation.Code()).With("name", a.Name)

	switch {
	case strings.TrimSpace(a.Name) == "":
		return e.Wrapf(common.ErrorValidation, "name is required")
	case a.PasswordHash == "" || a.Salt == "":
		return e.Wrapf(common.ErrorValidation, "credentials are required")
	case a.Coins < 0:
		return e.With("coins", a.Coins).Wrapf(common.ErrorValidation, "coins must not be negative")
	case len(a.BoosterSlots) > maxSlots:
		return e.With("slots", len(a.BoosterSlots)).Wrapf(common.ErrorValidation, "too many booster slots")
	}

	seen := make(map[int]struct{}, len(a.Collection))
	for _, id := range a.Collection {
		if _, dup := seen[id]; dup {
			return e.With("card_id", id).Wrapf(common.ErrorValidation, "duplicate card in collection")
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Owns reports whether cardID is in the collection.
func (a *Account) Owns(cardID int) bool {
	return slices.Contains(a.Collection, cardID)
}

// Clone returns a deep copy, so stores can hand out records without sharing slices.
func (a *Account) Clone() *Account {
	c := *a
	c.Collection = slices.Clone(a.Collection)
	c.BoosterSlots = slices.Clone(a.BoosterSlots)
	if c.Collection == nil {
		c.Collection = []int{}
	}
	if c.BoosterSlots == nil {
		c.BoosterSlots = []time.Time{}
	}
	return &c
}

// Profile returns the redacted external view.
func (a *Account) Profile() *Profile {
	return &Profile{
		Name:             a.Name,
		Coins:            a.Coins,
		Collection:       slices.Clone(a.Collection),
		BoosterSlots:     slices.Clone(a.BoosterSlots),
		LastBoosterClaim: a.LastBoosterClaim,
	}
}

// Profile is what leaves the service boundary: no hash, no salt.
type Profile struct {
	Name             string      `json:"name"`
	Coins            int         `json:"coins"`
	Collection       []int       `json:"collection"`
	BoosterSlots     []time.Time `json:"boosters"`
	LastBoosterClaim time.Time   `json:"lastBooster"`
}

package services

import (
	"time"

	"github.com/dmitrijs2005/gachaserver/internal/server/models"
)

// referenceTime is the instant the regeneration cooldown counts from: the
// oldest banked slot, or the last grant when nothing is banked.
func referenceTime(a *models.Account) time.Time {
	if len(a.BoosterSlots) == 0 {
		return a.LastBoosterClaim
	}
	oldest := a.BoosterSlots[0]
	for _, s := range a.BoosterSlots[1:] {
		if s.Before(oldest) {
			oldest = s
		}
	}
	return oldest
}

// regenerate grants at most one slot if the cooldown has elapsed and the bank
// is not full. It reports whether a slot was granted.
func regenerate(a *models.Account, now time.Time, cooldown time.Duration, maxSlots int) bool {
	if len(a.BoosterSlots) >= maxSlots {
		return false
	}
	if now.Sub(referenceTime(a)) < cooldown {
		return false
	}
	a.BoosterSlots = append(a.BoosterSlots, now)
	a.LastBoosterClaim = now
	return true
}

// takeOldest removes the oldest banked slot. It reports false on an empty bank.
func takeOldest(a *models.Account) bool {
	if len(a.BoosterSlots) == 0 {
		return false
	}
	idx := 0
	for i, s := range a.BoosterSlots {
		if s.Before(a.BoosterSlots[idx]) {
			idx = i
		}
	}
	a.BoosterSlots = append(a.BoosterSlots[:idx], a.BoosterSlots[idx+1:]...)
	return true
}

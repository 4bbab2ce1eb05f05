// Package player holds the player record, lifetime statistics, navigation
// location and tutorial progress.
package player

import (
	"github.com/lawnchairsociety/idlerpg/internal/formula"
	"github.com/lawnchairsociety/idlerpg/internal/skills"
)

// Starting values for a new or prestiged character.
const (
	StartLevel     = 1
	StartHP        = 100
	StartStrength  = 10
	StartDefense   = 5
	StartExpToNext = 100
)

// Player is the character record. Only the engine mutates it.
type Player struct {
	Level     int `json:"level"`
	HP        int `json:"hp"`
	MaxHP     int `json:"maxHp"`
	Strength  int `json:"strength"`
	Defense   int `json:"defense"`
	Gold      int `json:"gold"`
	Gems      int `json:"gems"`
	Exp       int `json:"exp"`
	ExpToNext int `json:"expToNext"`

	// Derived from skills and the equipped accessory on every recompute.
	AutoAttack  bool    `json:"autoAttack"`
	CritChance  float64 `json:"critChance"`
	GoldBonus   float64 `json:"goldBonus"`
	HealthRegen int     `json:"healthRegen"`

	PrestigeLevel     int     `json:"prestigeLevel"`
	PrestigeGoldBonus float64 `json:"prestigeGoldBonus"`
	PrestigeExpBonus  float64 `json:"prestigeExpBonus"`
}

// New returns a level 1 character.
func New() Player {
	return Player{
		Level:      StartLevel,
		HP:         StartHP,
		MaxHP:      StartHP,
		Strength:   StartStrength,
		Defense:    StartDefense,
		ExpToNext:  StartExpToNext,
		CritChance: skills.BaseCritChance,
		GoldBonus:  skills.BaseGoldBonus,
	}
}

// Heal restores health, capped at MaxHP, and returns the amount healed.
func (p *Player) Heal(amount int) int {
	if amount <= 0 || p.HP >= p.MaxHP {
		return 0
	}
	old := p.HP
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	return p.HP - old
}

// HealToFull restores the player to full health and returns the amount healed.
func (p *Player) HealToFull() int {
	return p.Heal(p.MaxHP - p.HP)
}

// TakeDamage lowers HP but never below 1: there is no death state.
// Returns true if the hit would have been fatal.
func (p *Player) TakeDamage(damage int) (knockedOut bool) {
	p.HP -= damage
	if p.HP <= 0 {
		p.HP = 1
		return true
	}
	return false
}

// SpendGold debits gold if there is enough.
func (p *Player) SpendGold(amount int) bool {
	if p.Gold < amount {
		return false
	}
	p.Gold -= amount
	return true
}

// SpendGems debits gems if there are enough.
func (p *Player) SpendGems(amount int) bool {
	if p.Gems < amount {
		return false
	}
	p.Gems -= amount
	return true
}

// CanLevelUp reports whether enough experience has been banked.
func (p *Player) CanLevelUp() bool {
	return p.Exp >= p.ExpToNext
}

// ApplyDerived overwrites the skill-driven stats and clamps HP.
func (p *Player) ApplyDerived(d skills.Derived) {
	p.AutoAttack = d.AutoAttack
	p.CritChance = d.CritChance
	p.GoldBonus = d.GoldBonus
	p.HealthRegen = d.HealthRegen
	p.MaxHP = d.MaxHP
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
}

// RewardGold returns a kill's gold after gold and prestige bonuses.
func (p *Player) RewardGold(base int) int {
	return formula.GoldReward(base, p.GoldBonus, p.PrestigeGoldBonus)
}

// RewardExp returns a kill's experience after the prestige bonus.
func (p *Player) RewardExp(base int) int {
	return formula.ExpReward(base, p.PrestigeExpBonus)
}

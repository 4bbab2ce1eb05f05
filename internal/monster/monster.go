// Package monster defines monster templates and the live combat target.
package monster

import (
	"github.com/lawnchairsociety/idlerpg/internal/formula"
)

// Template is a base monster as listed in the catalog.
type Template struct {
	Name   string `yaml:"name" json:"name"`
	Sprite string `yaml:"sprite" json:"sprite"`
	HP     int    `yaml:"hp" json:"hp"`
	Damage int    `yaml:"damage" json:"damage"`
	Gold   int    `yaml:"gold" json:"gold"`
	Exp    int    `yaml:"exp" json:"exp"`
}

// Monster is the current combat target. It is never persisted.
type Monster struct {
	Name       string `json:"name"`
	Sprite     string `json:"sprite"`
	HP         int    `json:"hp"`
	MaxHP      int    `json:"maxHp"`
	Damage     int    `json:"damage"`
	Gold       int    `json:"gold"`
	Exp        int    `json:"exp"`
	IsRaidBoss bool   `json:"isRaidBoss,omitempty"`
	RaidID     string `json:"raidId,omitempty"`
}

// IsAlive returns true while the monster still has HP.
func (m *Monster) IsAlive() bool {
	return m != nil && m.HP > 0
}

// TakeDamage reduces HP, clamping at zero, and returns the HP removed.
func (m *Monster) TakeDamage(amount int) int {
	if amount < 0 {
		amount = 0
	}
	if amount > m.HP {
		amount = m.HP
	}
	m.HP -= amount
	return amount
}

// Scale creates a monster from a template scaled for the player's level.
// Every stat is floor(base * (1 + (level-1) * 0.3)).
func Scale(t Template, playerLevel int) *Monster {
	hp := formula.ScaleStat(t.HP, playerLevel)
	return &Monster{
		Name:   t.Name,
		Sprite: t.Sprite,
		HP:     hp,
		MaxHP:  hp,
		Damage: formula.ScaleStat(t.Damage, playerLevel),
		Gold:   formula.ScaleStat(t.Gold, playerLevel),
		Exp:    formula.ScaleStat(t.Exp, playerLevel),
	}
}

// Spawn picks a template uniformly at random and scales it.
// Returns nil if there are no templates.
func Spawn(r formula.Roller, templates []Template, playerLevel int) *Monster {
	if len(templates) == 0 {
		return nil
	}
	return Scale(templates[r.Intn(len(templates))], playerLevel)
}

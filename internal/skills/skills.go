// Package skills holds the skill table, the per-skill level record and the
// recompute step that turns skill levels into player stats.
package skills

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/lawnchairsociety/idlerpg/internal/formula"
)

// ID identifies a skill.
type ID int

const (
	AutoAttack ID = iota
	CritChance
	DoubleStrike
	Berserker
	Executioner
	Devastation
	GoldBonus
	TreasureHunter
	Merchant
	GoldenTouch
	PhilosophersStone
	MidasTouch
	HealthRegen
	Vitality
	Swiftness
	Fortitude
	Immortality
	Transcendence
	PrestigePower
	EternalWisdom
	CosmicForce
	DivineBlessing
	RealityBender
	Omnipotence

	// Count is the number of skills.
	Count
)

var idNames = [Count]string{
	"auto-attack", "crit-chance", "double-strike", "berserker", "executioner", "devastation",
	"gold-bonus", "treasure-hunter", "merchant", "golden-touch", "philosophers-stone", "midas-touch",
	"health-regen", "vitality", "swiftness", "fortitude", "immortality", "transcendence",
	"prestige-power", "eternal-wisdom", "cosmic-force", "divine-blessing", "reality-bender", "omnipotence",
}

func (id ID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("skill(%d)", int(id))
	}
	return idNames[id]
}

// Valid reports whether id names a known skill.
func (id ID) Valid() bool {
	return id >= 0 && id < Count
}

// ParseID converts a skill identifier like "auto-attack" to an ID.
func ParseID(s string) (ID, error) {
	for i, name := range idNames {
		if name == s {
			return ID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown skill %q", s)
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Category groups skills in the skill tree.
type Category string

const (
	Combat   Category = "combat"
	Economy  Category = "economy"
	Utility  Category = "utility"
	Prestige Category = "prestige"
)

// Currency is what a skill is paid with.
type Currency string

const (
	Gold Currency = "gold"
	Gems Currency = "gems"
)

// Definition describes one skill.
type Definition struct {
	ID          ID       `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Category    Category `yaml:"category" json:"category"`
	BaseCost    int      `yaml:"cost" json:"cost"`
	Effect      float64  `yaml:"effect" json:"effect"`
	MaxLevel    int      `yaml:"max_level" json:"maxLevel"`
	Currency    Currency `yaml:"currency" json:"currency"`
}

// Table holds every skill definition, indexed by ID.
type Table [Count]Definition

// Get returns the definition for a skill.
func (t *Table) Get(id ID) Definition {
	return t[id]
}

// Cost returns the price of the next level given the current level.
func (t *Table) Cost(id ID, currentLevel int) int {
	return formula.SkillCost(t[id].BaseCost, currentLevel)
}

// Levels records the purchased level of every skill.
type Levels [Count]int

// Clamp forces every level into 0..maxLevel.
func (l *Levels) Clamp(t *Table) {
	for i := range l {
		if l[i] < 0 {
			l[i] = 0
		}
		if maxLevel := t[i].MaxLevel; l[i] > maxLevel {
			l[i] = maxLevel
		}
	}
}

// MarshalJSON writes levels as an object keyed by skill name.
func (l Levels) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, Count)
	for i, lvl := range l {
		m[idNames[i]] = lvl
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads the object form and drops unknown skills so that
// renamed or removed skills do not invalidate a save.
func (l *Levels) UnmarshalJSON(b []byte) error {
	var m map[string]int
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out Levels
	for name, lvl := range m {
		id, err := ParseID(name)
		if err != nil {
			continue
		}
		out[id] = lvl
	}
	*l = out
	return nil
}

// Base stats before skills apply.
const (
	BaseCritChance = 0.05
	BaseGoldBonus  = 1.0
	BaseMaxHP      = 100
	MaxHPPerLevel  = 20
)

// Derived are the player stats fully determined by skill levels.
type Derived struct {
	AutoAttack  bool
	CritChance  float64
	GoldBonus   float64
	HealthRegen int
	MaxHP       int
}

// Derive recomputes skill-driven stats from scratch.
func Derive(t *Table, l Levels, playerLevel int) Derived {
	if playerLevel < 1 {
		playerLevel = 1
	}
	crit := BaseCritChance + float64(l[CritChance])*t[CritChance].Effect
	return Derived{
		AutoAttack:  l[AutoAttack] > 0,
		CritChance:  math.Min(crit, 1),
		GoldBonus:   BaseGoldBonus + float64(l[GoldBonus])*t[GoldBonus].Effect,
		HealthRegen: int(float64(l[HealthRegen]) * t[HealthRegen].Effect),
		MaxHP:       BaseMaxHP + (playerLevel-1)*MaxHPPerLevel + int(float64(l[Vitality])*t[Vitality].Effect),
	}
}

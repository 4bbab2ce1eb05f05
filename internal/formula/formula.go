// Package formula holds the combat and progression math: monster scaling,
// crit rolls, damage, skill costs and the experience curve.
package formula

import (
	"fmt"
	"math"
	"strings"
)

// AttackType selects the damage modifier of a player attack.
type AttackType int

const (
	AttackNormal AttackType = iota
	AttackQuick
	AttackPower
)

var attackTypeNames = [...]string{"normal", "quick", "power"}

// attackModifiers are in tenths so damage stays in integer arithmetic.
var attackModifiers = [...]int{10, 7, 15}

func (a AttackType) String() string {
	if a < 0 || int(a) >= len(attackTypeNames) {
		return fmt.Sprintf("AttackType(%d)", int(a))
	}
	return attackTypeNames[a]
}

// ParseAttackType converts a name like "power" into an AttackType.
func ParseAttackType(s string) (AttackType, error) {
	for i, name := range attackTypeNames {
		if strings.EqualFold(s, name) {
			return AttackType(i), nil
		}
	}
	return AttackNormal, fmt.Errorf("unknown attack type %q", s)
}

func (a AttackType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AttackType) UnmarshalText(b []byte) error {
	parsed, err := ParseAttackType(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

const (
	// CritMultiplierTenths is the 2.5x crit multiplier in tenths.
	CritMultiplierTenths = 25

	// LevelScalePerLevel is the per-level growth of spawned monsters.
	LevelScalePerLevel = 0.3

	// SkillCostGrowth is the geometric growth of skill prices.
	SkillCostGrowth = 1.5
)

// LevelMultiplier returns the monster scaling factor for a player level.
// Formula: 1 + (level - 1) * 0.3
func LevelMultiplier(playerLevel int) float64 {
	if playerLevel < 1 {
		playerLevel = 1
	}
	return 1 + float64(playerLevel-1)*LevelScalePerLevel
}

// ScaleStat applies the level multiplier to a base monster stat.
// The multiplier is (10 + 3*(level-1)) / 10 so the floor is exact.
func ScaleStat(base, playerLevel int) int {
	if playerLevel < 1 {
		playerLevel = 1
	}
	return base * (10 + 3*(playerLevel-1)) / 10
}

// RollCrit returns true when a uniform draw in [0,1) lands under critChance.
func RollCrit(r Roller, critChance float64) bool {
	return r.Float64() < critChance
}

// AttackDamage computes player damage for one swing.
// Formula: floor((strength + weaponDamage) * typeModifier * critMultiplier)
func AttackDamage(strength, weaponDamage int, attackType AttackType, isCrit bool) int {
	base := strength + weaponDamage
	typeMod := 10
	if attackType >= 0 && int(attackType) < len(attackModifiers) {
		typeMod = attackModifiers[attackType]
	}
	critMod := 10
	if isCrit {
		critMod = CritMultiplierTenths
	}
	return base * typeMod * critMod / 100
}

// MonsterDamage computes the damage a counter-attack deals to the player.
// Never less than 1, so every exchange makes progress.
func MonsterDamage(monsterDamage, playerDefense, armorDefense int) int {
	dmg := monsterDamage - (playerDefense + armorDefense)
	if dmg < 1 {
		return 1
	}
	return dmg
}

// SkillCost returns the price of the next level of a skill.
// Formula: floor(baseCost * 1.5^currentLevel)
func SkillCost(baseCost, currentLevel int) int {
	if currentLevel <= 0 {
		return baseCost
	}
	return int(math.Floor(float64(baseCost) * math.Pow(SkillCostGrowth, float64(currentLevel))))
}

// ExpToNextAfterLevelUp grows the experience requirement by 20%.
func ExpToNextAfterLevelUp(current int) int {
	return current * 12 / 10
}

// GoldReward applies the gold bonus and prestige gold bonus to a kill.
// Formula: floor(gold * goldBonus * (1 + prestigeGoldBonus))
func GoldReward(gold int, goldBonus, prestigeGoldBonus float64) int {
	return int(math.Floor(float64(gold) * goldBonus * (1 + prestigeGoldBonus)))
}

// ExpReward applies the prestige experience bonus to a kill.
// Formula: floor(exp * (1 + prestigeExpBonus))
func ExpReward(exp int, prestigeExpBonus float64) int {
	return int(math.Floor(float64(exp) * (1 + prestigeExpBonus)))
}

// HealAmount is the amount a heal potion restores: half of max HP.
func HealAmount(maxHP int) int {
	return maxHP / 2
}

// PoisonDamage is the typeless damage of a poison vial: 30% of the
// monster's max HP.
func PoisonDamage(monsterMaxHP int) int {
	return monsterMaxHP * 3 / 10
}

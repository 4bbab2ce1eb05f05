package player

import "github.com/lawnchairsociety/idlerpg/internal/formula"

// Leveling constants
const (
	HPPerLevel       = 20
	StrengthPerLevel = 2
	DefensePerLevel  = 1
)

// Prestige requirements and rewards.
const (
	PrestigeMinLevel          = 50
	PrestigeMinGold           = 10000
	PrestigeMinAchievements   = 3
	PrestigeGoldBonusPerLevel = 0.5
	PrestigeExpBonusPerLevel  = 0.25
)

// LevelUpInfo describes one level gained.
type LevelUpInfo struct {
	NewLevel      int
	HPGain        int
	StrengthGain  int
	DefenseGain   int
	NextThreshold int
}

// LevelUp advances exactly one level. The spent experience is subtracted
// and any remainder carries over, even if it already covers the next level.
func (p *Player) LevelUp() LevelUpInfo {
	p.Level++
	p.Exp -= p.ExpToNext
	p.ExpToNext = formula.ExpToNextAfterLevelUp(p.ExpToNext)

	p.MaxHP += HPPerLevel
	p.Strength += StrengthPerLevel
	p.Defense += DefensePerLevel
	p.HealToFull()

	return LevelUpInfo{
		NewLevel:      p.Level,
		HPGain:        HPPerLevel,
		StrengthGain:  StrengthPerLevel,
		DefenseGain:   DefensePerLevel,
		NextThreshold: p.ExpToNext,
	}
}

// MeetsPrestigeThreshold checks the level and gold parts of prestige
// eligibility. The achievement count is checked by the caller.
func (p *Player) MeetsPrestigeThreshold() bool {
	return p.Level >= PrestigeMinLevel && p.Gold >= PrestigeMinGold
}

// Prestige raises the permanent bonuses and resets the character to its
// starting values. Gems are kept.
func (p *Player) Prestige() {
	fresh := New()
	fresh.Gems = p.Gems
	fresh.PrestigeLevel = p.PrestigeLevel + 1
	fresh.PrestigeGoldBonus = p.PrestigeGoldBonus + PrestigeGoldBonusPerLevel
	fresh.PrestigeExpBonus = p.PrestigeExpBonus + PrestigeExpBonusPerLevel
	*p = fresh
}

package engine

import (
	"fmt"

	"github.com/lawnchairsociety/idlerpg/internal/items"
	"github.com/lawnchairsociety/idlerpg/internal/logger"
	"github.com/lawnchairsociety/idlerpg/internal/objective"
	"github.com/lawnchairsociety/idlerpg/internal/player"
	"github.com/lawnchairsociety/idlerpg/internal/skills"
)

// levelUp grants exactly one level. Leftover experience carries over even
// when it already covers the next level.
func (e *Engine) levelUp() {
	info := e.player.LevelUp()
	e.recompute()
	e.player.HealToFull()

	e.logf("LEVEL UP! You are now level %d!", info.NewLevel)
	e.sound(SoundLevelUp)
	e.notify("Level Up!", fmt.Sprintf("You have reached level %d!", info.NewLevel))
	logger.Info("Level up", "level", info.NewLevel, "max_hp", fmt.Sprintf("+%d", info.HPGain),
		"strength", fmt.Sprintf("+%d", info.StrengthGain), "defense", fmt.Sprintf("+%d", info.DefenseGain),
		"next", info.NextThreshold)

	e.tracker.UpdateAchievement(objective.Level5, 1)
	e.tracker.UpdateAchievement(objective.Level25, 1)
	e.tracker.UpdateQuest(objective.GainLevels, 1)
	e.refreshRaids()
}

// CanPrestige reports whether the player may prestige.
func (e *Engine) CanPrestige() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canPrestige()
}

func (e *Engine) canPrestige() bool {
	return e.player.MeetsPrestigeThreshold() &&
		e.tracker.UnlockedCount() >= player.PrestigeMinAchievements
}

// Prestige resets the character for permanent gold and experience bonuses.
// Achievements, quests, raid completion, statistics, gems and consumables
// are kept.
func (e *Engine) Prestige() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.canPrestige() {
		return e.reject(ErrPrestigeNotEligible,
			"Prestige requires level %d, %d gold and %d achievements.",
			player.PrestigeMinLevel, player.PrestigeMinGold, player.PrestigeMinAchievements)
	}

	e.player.Prestige()
	e.skills = skills.Levels{}
	e.equipment = items.NewEquipment(e.cat.StarterWeapon, e.cat.StarterArmor)
	e.inventory = []items.Item{}
	e.activeRaid = nil
	e.recompute()

	e.tracker.UpdateAchievement(objective.PrestigeMaster, 1)
	e.refreshRaids()
	e.spawnMonster()

	p := e.player
	e.notify("Prestige!", fmt.Sprintf("Prestige level %d: +%.0f%% gold, +%.0f%% EXP",
		p.PrestigeLevel, p.PrestigeGoldBonus*100, p.PrestigeExpBonus*100))
	logger.Info("Prestige", "level", p.PrestigeLevel)
	return nil
}

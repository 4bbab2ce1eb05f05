package engine

import (
	"fmt"

	"github.com/lawnchairsociety/idlerpg/internal/items"
	"github.com/lawnchairsociety/idlerpg/internal/logger"
	"github.com/lawnchairsociety/idlerpg/internal/monster"
	"github.com/lawnchairsociety/idlerpg/internal/objective"
	"github.com/lawnchairsociety/idlerpg/internal/player"
)

// StartRaid replaces the current monster with a raid boss. The raid must
// be available and not yet completed in this reset period.
func (e *Engine) StartRaid(id objective.RaidID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id < 0 || id >= objective.RaidCount {
		return e.reject(fmt.Errorf("%w: unknown raid %d", ErrRaidLocked, int(id)), "Unknown raid.")
	}
	raid := e.tracker.Raid(id)
	if !e.tracker.CanStartRaid(id, e.eligibility()) {
		return e.reject(ErrRaidLocked, "%s is not available.", raid.Name)
	}

	boss := raid.Boss
	e.monster = &monster.Monster{
		Name:       boss.Name,
		Sprite:     boss.Sprite,
		HP:         boss.HP,
		MaxHP:      boss.HP,
		Damage:     boss.Damage,
		IsRaidBoss: true,
		RaidID:     id.String(),
	}
	e.activeRaid = &id
	e.location = player.Battle

	e.publish(Event{Kind: KindMonsterSpawned, Message: fmt.Sprintf("%s appears!", boss.Name)})
	e.logf("Starting %s!", raid.Name)
	e.notify("Raid Started!", fmt.Sprintf("You are now fighting %s!", boss.Name))
	logger.Info("Raid started", "raid", id.String())
	return nil
}

// completeRaid pays out the active raid and queues a normal monster.
func (e *Engine) completeRaid() {
	id, ok := e.currentRaid()
	if !ok {
		logger.Warning("Raid boss defeated without an active raid")
		e.monster = nil
		e.after(e.timing.RaidRespawnDelay, "respawn", e.respawnIfDead)
		return
	}

	raid := e.tracker.Raid(id)
	e.tracker.CompleteRaid(id, e.eligibility())

	gold := e.player.RewardGold(raid.Rewards.Gold)
	exp := e.player.RewardExp(raid.Rewards.Exp)
	e.player.Gold += gold
	e.player.Exp += exp
	e.stats.RecordGoldEarned(gold)
	e.stats.RecordRaid()

	for _, name := range raid.Rewards.Items {
		e.inventory = append(e.inventory, items.NewDrop(name, e.cat.Drops))
	}

	e.logf("Raid completed! Gained %d gold and %d EXP!", gold, exp)
	e.notify("Raid Complete!", fmt.Sprintf("Defeated %s and earned amazing rewards!", raid.Boss.Name))
	logger.Info("Raid completed", "raid", id.String(), "gold", gold, "exp", exp)

	if e.player.CanLevelUp() {
		e.levelUp()
	}
	e.tracker.UpdateAchievement(objective.RaidMaster, 1)

	e.activeRaid = nil
	e.monster = nil
	e.after(e.timing.RaidRespawnDelay, "respawn", e.respawnIfDead)
	e.refreshRaids()
}

// currentRaid returns the raid being fought, falling back to the boss's
// back-reference.
func (e *Engine) currentRaid() (objective.RaidID, bool) {
	if e.activeRaid != nil {
		return *e.activeRaid, true
	}
	if e.monster != nil && e.monster.RaidID != "" {
		id, err := objective.ParseRaidID(e.monster.RaidID)
		return id, err == nil
	}
	return 0, false
}

// CheckResets runs any quest or raid reset whose period has elapsed.
func (e *Engine) CheckResets() []objective.ResetKind {
	e.mu.Lock()
	defer e.mu.Unlock()
	fired := e.tracker.CheckResets(e.clock.Now(), e.eligibility())
	for _, kind := range fired {
		logger.Info("Periodic reset", "kind", string(kind))
	}
	return fired
}

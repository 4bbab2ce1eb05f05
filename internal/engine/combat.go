package engine

import (
	"fmt"

	"github.com/lawnchairsociety/idlerpg/internal/formula"
	"github.com/lawnchairsociety/idlerpg/internal/items"
	"github.com/lawnchairsociety/idlerpg/internal/logger"
	"github.com/lawnchairsociety/idlerpg/internal/monster"
	"github.com/lawnchairsociety/idlerpg/internal/objective"
)

// AttackResult describes one player attack.
type AttackResult struct {
	Damage   int  `json:"damage"`
	Crit     bool `json:"crit"`
	Defeated bool `json:"defeated"`

	// Respawned is set when there was no live monster: a new one was
	// spawned and no damage was dealt.
	Respawned bool `json:"respawned"`
}

// Attack swings at the current monster.
func (e *Engine) Attack(t formula.AttackType) AttackResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attack(t)
}

// AutoAttack performs a normal attack if auto-attack is unlocked and the
// player is on the battle screen. Returns true if an attack was made.
func (e *Engine) AutoAttack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.player.AutoAttack || !e.inCombat() {
		return false
	}
	e.attack(formula.AttackNormal)
	return true
}

func (e *Engine) attack(t formula.AttackType) AttackResult {
	if !e.monster.IsAlive() {
		e.spawnMonster()
		return AttackResult{Respawned: true}
	}

	m := e.monster
	crit := formula.RollCrit(e.roller, e.player.CritChance)
	damage := formula.AttackDamage(e.effectiveStrength(), e.equipment.WeaponDamage(), t, crit)
	m.TakeDamage(damage)

	e.floating(damage, crit, false, TargetMonster)
	if crit {
		e.sound(SoundCrit)
	} else {
		e.sound(SoundAttack)
	}

	e.stats.RecordAttack(damage, crit)
	if crit {
		e.tracker.UpdateAchievement(objective.CritMaster, 1)
		e.logf("CRITICAL HIT! You deal %d damage!", damage)
	} else {
		e.logf("You deal %d damage!", damage)
	}

	res := AttackResult{Damage: damage, Crit: crit}
	if !m.IsAlive() {
		e.defeatMonster()
		res.Defeated = true
		return res
	}
	e.after(e.timing.CounterAttackDelay, "counter-attack", func() { e.counterAttack(m) })
	return res
}

// counterAttack lets m hit back if it is still the live target.
func (e *Engine) counterAttack(m *monster.Monster) {
	if e.monster != m || !m.IsAlive() {
		return
	}
	damage := formula.MonsterDamage(m.Damage, e.effectiveDefense(), e.equipment.ArmorDefense())
	knockedOut := e.player.TakeDamage(damage)
	e.floating(damage, false, false, TargetPlayer)
	e.logf("%s deals %d damage!", m.Name, damage)
	if knockedOut {
		e.logf("You are knocked unconscious!")
	}
}

// defeatMonster pays out the current monster and queues the next one.
func (e *Engine) defeatMonster() {
	m := e.monster
	if m.IsRaidBoss {
		e.completeRaid()
		return
	}

	gold := e.player.RewardGold(m.Gold)
	exp := e.player.RewardExp(m.Exp)
	e.player.Gold += gold
	e.player.Exp += exp
	e.stats.RecordKill()
	e.stats.RecordGoldEarned(gold)

	e.logf("You defeated %s!", m.Name)
	e.logf("Gained %d gold and %d EXP!", gold, exp)

	if e.player.CanLevelUp() {
		e.levelUp()
	}

	e.tracker.UpdateAchievement(objective.FirstKill, 1)
	e.tracker.UpdateAchievement(objective.MonsterSlayer, 1)
	e.tracker.UpdateAchievement(objective.Rich1000, gold)
	e.tracker.UpdateAchievement(objective.Rich10000, gold)
	e.tracker.UpdateQuest(objective.KillMonsters, 1)
	e.tracker.UpdateQuest(objective.EarnGold, gold)
	e.refreshRaids()

	e.after(e.timing.RespawnDelay, "respawn", e.respawnIfDead)
}

func (e *Engine) respawnIfDead() {
	if !e.monster.IsAlive() {
		e.spawnMonster()
	}
}

func (e *Engine) spawnMonster() {
	e.monster = monster.Spawn(e.roller, e.cat.Monsters, e.player.Level)
	if e.monster == nil {
		logger.Error("No monster templates to spawn from")
		return
	}
	e.publish(Event{Kind: KindMonsterSpawned, Message: fmt.Sprintf("A wild %s appears!", e.monster.Name)})
}

// UseConsumable drinks or throws a potion.
func (e *Engine) UseConsumable(t items.ConsumableType) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch t {
	case items.HealPotion, items.PoisonPotion:
	case items.StrengthPotion, items.DefensePotion:
		return e.reject(ErrUnusableConsumable, "%s has no effect yet.", t)
	default:
		return e.reject(ErrUnusableConsumable, "Unknown consumable.")
	}

	if e.consumables.Count(t) <= 0 {
		return e.reject(ErrInvalidTarget, "No %s remaining!", t)
	}

	switch t {
	case items.HealPotion:
		amount := formula.HealAmount(e.player.MaxHP)
		e.player.Heal(amount)
		e.consumables.Take(t)
		e.logf("Used Heal Potion! Restored %d HP.", amount)
		e.floating(amount, false, true, TargetPlayer)

	case items.PoisonPotion:
		if !e.monster.IsAlive() {
			return e.reject(ErrInvalidTarget, "No monster to poison!")
		}
		m := e.monster
		damage := formula.PoisonDamage(m.MaxHP)
		m.TakeDamage(damage)
		e.consumables.Take(t)
		e.logf("Used Poison! Dealt %d poison damage!", damage)
		e.floating(damage, false, false, TargetMonster)
		if !m.IsAlive() {
			e.defeatMonster()
		}
	}
	return nil
}

// Regenerate applies one health regeneration tick and returns the HP gained.
func (e *Engine) Regenerate() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.player.HealthRegen <= 0 {
		return 0
	}
	return e.player.Heal(e.player.HealthRegen)
}

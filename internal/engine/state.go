package engine

import (
	"github.com/lawnchairsociety/idlerpg/internal/items"
	"github.com/lawnchairsociety/idlerpg/internal/logger"
	"github.com/lawnchairsociety/idlerpg/internal/player"
	"github.com/lawnchairsociety/idlerpg/internal/save"
)

// Export captures the persistent state. The current monster, active raid,
// combat log and pending tasks are not saved.
func (e *Engine) Export() *save.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.player
	eq := copyEquipment(e.equipment)
	levels := e.skills
	consumables := e.consumables
	stats := e.stats
	tutorial := e.tutorial
	loc := e.location
	started := e.stats.GameStarted

	s := &save.Snapshot{
		Player:          &p,
		Equipment:       &eq,
		Skills:          &levels,
		Inventory:       append([]items.Item{}, e.inventory...),
		Consumables:     &consumables,
		Stats:           &stats,
		Tutorial:        &tutorial,
		GameStartTime:   &started,
		CurrentLocation: &loc,
	}
	s.SetObjectives(e.tracker.Export())
	return s
}

// Restore replaces the game with a saved one. Missing parts of the
// snapshot take their starting values, and derived player stats are
// recomputed from skills and equipment rather than trusted.
func (e *Engine) Restore(s *save.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.initState()

	if s.Player != nil {
		e.player = sanitizePlayer(*s.Player)
	}
	if s.Skills != nil {
		e.skills = *s.Skills
		e.skills.Clamp(&e.cat.Skills)
	}
	if s.Equipment != nil {
		e.restoreEquipment(*s.Equipment)
	}
	if s.Inventory != nil {
		e.inventory = e.inventory[:0]
		for _, item := range s.Inventory {
			if item.ID == "" {
				item = items.NewInstance(item)
			}
			e.inventory = append(e.inventory, item)
		}
	}
	if s.Consumables != nil {
		c := *s.Consumables
		c.HealPotion = max(c.HealPotion, 0)
		c.PoisonPotion = max(c.PoisonPotion, 0)
		c.StrengthPotion = max(c.StrengthPotion, 0)
		c.DefensePotion = max(c.DefensePotion, 0)
		e.consumables = c
	}
	if s.Stats != nil {
		e.stats = *s.Stats
	}
	if s.GameStartTime != nil && !s.GameStartTime.IsZero() {
		e.stats.GameStarted = *s.GameStartTime
	}
	if s.Tutorial != nil {
		e.tutorial = *s.Tutorial
	}
	if s.CurrentLocation != nil {
		e.location = *s.CurrentLocation
	}

	e.recompute()
	if e.player.HP < 1 {
		e.player.HP = 1
	}
	e.tracker.Restore(s.Objectives(), e.eligibility())
	e.spawnMonster()

	logger.Info("Game restored", "level", e.player.Level, "prestige", e.player.PrestigeLevel)
}

// restoreEquipment keeps saved items only in the slot of their type and
// refills empty weapon or armor slots with starter gear.
func (e *Engine) restoreEquipment(saved items.Equipment) {
	if saved.Weapon != nil && saved.Weapon.Type == items.Weapon {
		e.equipment.Weapon = saved.Weapon
	}
	if saved.Armor != nil && saved.Armor.Type == items.Armor {
		e.equipment.Armor = saved.Armor
	}
	if saved.Accessory != nil && saved.Accessory.Type == items.Accessory {
		e.equipment.Accessory = saved.Accessory
	}
}

func sanitizePlayer(p player.Player) player.Player {
	p.Level = max(p.Level, 1)
	p.Gold = max(p.Gold, 0)
	p.Gems = max(p.Gems, 0)
	p.Exp = max(p.Exp, 0)
	p.Strength = max(p.Strength, 0)
	p.Defense = max(p.Defense, 0)
	p.PrestigeLevel = max(p.PrestigeLevel, 0)
	p.PrestigeGoldBonus = max(p.PrestigeGoldBonus, 0)
	p.PrestigeExpBonus = max(p.PrestigeExpBonus, 0)
	if p.ExpToNext <= 0 {
		p.ExpToNext = player.StartExpToNext
	}
	return p
}

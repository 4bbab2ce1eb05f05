package engine

import (
	"github.com/lawnchairsociety/idlerpg/internal/gametime"
	"github.com/lawnchairsociety/idlerpg/internal/items"
	"github.com/lawnchairsociety/idlerpg/internal/monster"
	"github.com/lawnchairsociety/idlerpg/internal/objective"
	"github.com/lawnchairsociety/idlerpg/internal/player"
	"github.com/lawnchairsociety/idlerpg/internal/skills"
)

// SkillView is a skill with its purchase state.
type SkillView struct {
	skills.Definition
	Level    int  `json:"level"`
	NextCost int  `json:"nextCost"`
	Maxed    bool `json:"maxed"`
}

// RaidTiers groups raids by tier in unlock order.
type RaidTiers struct {
	Daily   []objective.Raid `json:"daily"`
	Weekly  []objective.Raid `json:"weekly"`
	Monthly []objective.Raid `json:"monthly"`
}

// View is a read-only copy of everything the presentation layer shows.
type View struct {
	Player            player.Player                  `json:"player"`
	EffectiveStrength int                            `json:"effectiveStrength"`
	EffectiveDefense  int                            `json:"effectiveDefense"`
	Monster           *monster.Monster               `json:"monster"`
	ActiveRaid        string                         `json:"activeRaid,omitempty"`
	Equipment         items.Equipment                `json:"equipment"`
	Skills            []SkillView                    `json:"skills"`
	Inventory         []items.Item                   `json:"inventory"`
	Consumables       items.Consumables              `json:"consumables"`
	Achievements      []objective.Achievement        `json:"achievements"`
	Quests            []objective.Quest              `json:"quests"`
	Raids             RaidTiers                      `json:"raids"`
	Stats             player.Statistics              `json:"stats"`
	Tutorial          player.Tutorial                `json:"tutorial"`
	Location          player.Location                `json:"location"`
	CombatLog         []string                       `json:"combatLog"`
	CanPrestige       bool                           `json:"canPrestige"`
	ResetsIn          map[objective.ResetKind]string `json:"resetsIn"`
}

// View returns a snapshot of the current state.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := View{
		Player:            e.player,
		EffectiveStrength: e.effectiveStrength(),
		EffectiveDefense:  e.effectiveDefense(),
		Monster:           e.monsterCopy(),
		Equipment:         copyEquipment(e.equipment),
		Inventory:         append([]items.Item{}, e.inventory...),
		Consumables:       e.consumables,
		Achievements:      e.tracker.Achievements(),
		Quests:            e.tracker.Quests(),
		Raids: RaidTiers{
			Daily:   e.tracker.Raids(objective.Daily),
			Weekly:  e.tracker.Raids(objective.Weekly),
			Monthly: e.tracker.Raids(objective.Monthly),
		},
		Stats:       e.stats,
		Tutorial:    e.tutorial,
		Location:    e.location,
		CombatLog:   append([]string{}, e.combatLog...),
		CanPrestige: e.canPrestige(),
		ResetsIn:    make(map[objective.ResetKind]string),
	}
	if e.activeRaid != nil {
		v.ActiveRaid = e.activeRaid.String()
	}
	for id := skills.ID(0); id < skills.Count; id++ {
		def := e.cat.Skills.Get(id)
		v.Skills = append(v.Skills, SkillView{
			Definition: def,
			Level:      e.skills[id],
			NextCost:   e.cat.Skills.Cost(id, e.skills[id]),
			Maxed:      e.skills[id] >= def.MaxLevel,
		})
	}
	for kind, d := range e.tracker.TimeUntil(e.clock.Now()) {
		v.ResetsIn[kind] = gametime.FormatCountdown(d)
	}
	return v
}

// Player returns a copy of the player record.
func (e *Engine) Player() player.Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.player
}

// Monster returns a copy of the current monster, or nil.
func (e *Engine) Monster() *monster.Monster {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.monsterCopy()
}

func (e *Engine) monsterCopy() *monster.Monster {
	if e.monster == nil {
		return nil
	}
	m := *e.monster
	return &m
}

// Equipment returns a copy of the equipped items.
func (e *Engine) Equipment() items.Equipment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyEquipment(e.equipment)
}

func copyEquipment(eq items.Equipment) items.Equipment {
	var out items.Equipment
	if eq.Weapon != nil {
		w := *eq.Weapon
		out.Weapon = &w
	}
	if eq.Armor != nil {
		a := *eq.Armor
		out.Armor = &a
	}
	if eq.Accessory != nil {
		a := *eq.Accessory
		out.Accessory = &a
	}
	return out
}

// Inventory returns a copy of the owned items.
func (e *Engine) Inventory() []items.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]items.Item{}, e.inventory...)
}

// Consumables returns the potion counters.
func (e *Engine) Consumables() items.Consumables {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.consumables
}

// SkillLevel returns the purchased level of a skill.
func (e *Engine) SkillLevel(id skills.ID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !id.Valid() {
		return 0
	}
	return e.skills[id]
}

// Stats returns the lifetime statistics.
func (e *Engine) Stats() player.Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Achievement returns one achievement.
func (e *Engine) Achievement(id objective.AchievementID) objective.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Achievement(id)
}

// Quest returns one quest.
func (e *Engine) Quest(id objective.QuestID) objective.Quest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Quest(id)
}

// Raid returns one raid.
func (e *Engine) Raid(id objective.RaidID) objective.Raid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Raid(id)
}

// CombatLog returns the most recent combat log lines, oldest first.
func (e *Engine) CombatLog() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string{}, e.combatLog...)
}

// Package engine is the progression engine: combat, rewards, leveling,
// purchases, equipment, raids and prestige.
//
// All state lives in an Engine and is guarded by a single mutex, so player
// commands and scheduler ticks are serialized. Delayed steps such as
// counter-attacks and respawns go on a deferred task queue that runs under
// the same lock, either when due (RunDue) or all at once (Drain).
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lawnchairsociety/idlerpg/internal/catalog"
	"github.com/lawnchairsociety/idlerpg/internal/formula"
	"github.com/lawnchairsociety/idlerpg/internal/gametime"
	"github.com/lawnchairsociety/idlerpg/internal/items"
	"github.com/lawnchairsociety/idlerpg/internal/logger"
	"github.com/lawnchairsociety/idlerpg/internal/monster"
	"github.com/lawnchairsociety/idlerpg/internal/objective"
	"github.com/lawnchairsociety/idlerpg/internal/player"
	"github.com/lawnchairsociety/idlerpg/internal/skills"
)

// Rejections. Every one is recoverable and is also reported as a log event.
var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrMaxLevel            = errors.New("skill already at max level")
	ErrInvalidTarget       = errors.New("invalid target")
	ErrPrestigeNotEligible = errors.New("prestige requirements not met")
	ErrRaidLocked          = errors.New("raid not available")
	ErrUnknownItem         = errors.New("unknown item")
	ErrUnusableConsumable  = errors.New("consumable cannot be used")
)

// combatLogSize is how many combat log lines are kept.
const combatLogSize = 5

// Timing holds the delays of deferred combat steps.
type Timing struct {
	CounterAttackDelay time.Duration
	RespawnDelay       time.Duration
	RaidRespawnDelay   time.Duration
}

// DefaultTiming returns the standard delays.
func DefaultTiming() Timing {
	return Timing{
		CounterAttackDelay: 500 * time.Millisecond,
		RespawnDelay:       1500 * time.Millisecond,
		RaidRespawnDelay:   2000 * time.Millisecond,
	}
}

// Options configure a new Engine. Zero fields get defaults.
type Options struct {
	Catalog *catalog.Catalog
	Roller  formula.Roller
	Clock   gametime.Clock
	Timing  *Timing
	Bus     *Bus
}

// Engine owns the game state.
type Engine struct {
	mu sync.Mutex

	cat    *catalog.Catalog
	roller formula.Roller
	clock  gametime.Clock
	timing Timing
	bus    *Bus

	player      player.Player
	equipment   items.Equipment
	skills      skills.Levels
	inventory   []items.Item
	consumables items.Consumables
	tracker     *objective.Tracker
	stats       player.Statistics
	tutorial    player.Tutorial
	location    player.Location

	monster    *monster.Monster
	activeRaid *objective.RaidID
	combatLog  []string
	tasks      taskQueue
}

// New creates an engine holding a fresh level 1 game with a monster spawned.
func New(opts Options) *Engine {
	e := &Engine{
		cat:    opts.Catalog,
		roller: opts.Roller,
		clock:  opts.Clock,
		bus:    opts.Bus,
		timing: DefaultTiming(),
	}
	if e.cat == nil {
		e.cat = catalog.MustDefault()
	}
	if e.roller == nil {
		e.roller = formula.NewRoller()
	}
	if e.clock == nil {
		e.clock = gametime.RealClock{}
	}
	if e.bus == nil {
		e.bus = NewBus()
	}
	if opts.Timing != nil {
		e.timing = *opts.Timing
	}
	e.resetState()
	return e
}

// resetState installs a brand new game with a monster spawned.
func (e *Engine) resetState() {
	e.initState()
	e.spawnMonster()
}

func (e *Engine) initState() {
	now := e.clock.Now()
	e.player = player.New()
	e.equipment = items.NewEquipment(e.cat.StarterWeapon, e.cat.StarterArmor)
	e.skills = skills.Levels{}
	e.inventory = []items.Item{}
	e.consumables = items.StartingConsumables()
	e.tracker = objective.NewTracker(&e.cat.Objectives, e.trackerHooks(), now)
	e.stats = player.NewStatistics(now)
	e.tutorial = player.Tutorial{}
	e.location = player.WorldMap
	e.activeRaid = nil
	e.combatLog = nil
	e.tasks.clear()
	e.monster = nil
	e.recompute()
	e.refreshRaids()
}

// Bus returns the event bus.
func (e *Engine) Bus() *Bus {
	return e.bus
}

// Catalog returns the static game data.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Reset discards all progress and starts over.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetState()
	e.notify("Game Reset", "All progress has been cleared.")
	logger.Info("Game reset")
}

// RunDue runs every deferred task due at or before now, including tasks
// scheduled by the tasks themselves. Returns the number run.
func (e *Engine) RunDue(now time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for t := e.tasks.popDue(now); t != nil; t = e.tasks.popDue(now) {
		t.fn()
		n++
	}
	return n
}

// Drain runs every pending task in due order without waiting.
func (e *Engine) Drain() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for t := e.tasks.popNext(); t != nil; t = e.tasks.popNext() {
		t.fn()
		n++
	}
	return n
}

// Pending returns the number of deferred tasks waiting to run.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tasks.Len()
}

func (e *Engine) after(d time.Duration, name string, fn func()) {
	e.tasks.schedule(e.clock.Now().Add(d), name, fn)
}

// recompute rebuilds skill- and accessory-driven stats from scratch.
func (e *Engine) recompute() {
	d := skills.Derive(&e.cat.Skills, e.skills, e.player.Level)
	bonus := e.equipment.AccessoryBonus()
	d.GoldBonus += bonus.GoldBonus
	d.CritChance = min(d.CritChance+bonus.CritChance, 1)
	e.player.ApplyDerived(d)
}

// effectiveStrength includes the accessory bonus.
func (e *Engine) effectiveStrength() int {
	return e.player.Strength + e.equipment.AccessoryBonus().Strength
}

// effectiveDefense includes the accessory bonus but not the armor, which
// the damage formula takes separately.
func (e *Engine) effectiveDefense() int {
	return e.player.Defense + e.equipment.AccessoryBonus().Defense
}

func (e *Engine) eligibility() objective.Eligibility {
	return objective.Eligibility{
		Level:    e.player.Level,
		Gold:     e.player.Gold,
		Prestige: e.player.PrestigeLevel,
	}
}

func (e *Engine) refreshRaids() {
	e.tracker.RefreshRaids(e.eligibility())
}

func (e *Engine) trackerHooks() objective.Hooks {
	return objective.Hooks{
		AchievementUnlocked: func(a objective.Achievement) {
			e.notify("Achievement Unlocked!", a.Name)
			e.sound(SoundAchievement)
			logger.Info("Achievement unlocked", "achievement", a.ID.String())
		},
		QuestCompleted: func(q objective.Quest) {
			e.notify("Quest Complete!", fmt.Sprintf("%s: +%d gold", q.Name, q.Reward))
			e.sound(SoundAchievement)
			e.logf("Quest complete: %s! +%d gold", q.Name, q.Reward)
		},
		QuestsReset: func() {
			e.notify("Daily Quests Reset", "New daily quests are available!")
		},
		RaidsReset: func(t objective.Tier) {
			e.notify("Raids Reset", fmt.Sprintf("%s raids are available again!", t))
		},
		CreditGold: func(amount int) {
			e.player.Gold += amount
			e.stats.RecordGoldEarned(amount)
		},
	}
}

func (e *Engine) publish(ev Event) {
	ev.Time = e.clock.Now()
	e.bus.Publish(ev)
}

// logf appends a combat log line and publishes it.
func (e *Engine) logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	e.combatLog = append(e.combatLog, line)
	if len(e.combatLog) > combatLogSize {
		e.combatLog = e.combatLog[len(e.combatLog)-combatLogSize:]
	}
	e.publish(Event{Kind: KindLog, Message: line})
}

func (e *Engine) notify(title, message string) {
	e.publish(Event{Kind: KindNotification, Title: title, Message: message})
}

func (e *Engine) sound(s Sound) {
	e.publish(Event{Kind: KindSound, Sound: s})
}

func (e *Engine) floating(amount int, crit, heal bool, target Target) {
	e.publish(Event{Kind: KindFloatingNumber, Amount: amount, Crit: crit, Heal: heal, Target: target})
}

// reject logs a rejected command and returns err.
func (e *Engine) reject(err error, format string, args ...any) error {
	e.logf(format, args...)
	logger.Debug("Command rejected", "reason", err.Error())
	return err
}

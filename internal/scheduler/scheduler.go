// Package scheduler drives the engine on timers: auto-attack, health
// regeneration, deferred combat steps, periodic resets, play time and
// autosave. It is a cooperative polling loop; every step goes through the
// engine's own lock.
package scheduler

import (
	"context"
	"time"

	"github.com/lawnchairsociety/idlerpg/internal/engine"
	"github.com/lawnchairsociety/idlerpg/internal/gametime"
	"github.com/lawnchairsociety/idlerpg/internal/logger"
	"github.com/lawnchairsociety/idlerpg/internal/objective"
	"github.com/lawnchairsociety/idlerpg/internal/save"
)

// Config holds the tick cadences. A zero Autosave disables autosave.
type Config struct {
	Tick       time.Duration
	AutoAttack time.Duration
	Regen      time.Duration
	ResetCheck time.Duration
	PlayTime   time.Duration
	Autosave   time.Duration
}

// DefaultConfig returns the standard cadences.
func DefaultConfig() Config {
	return Config{
		Tick:       100 * time.Millisecond,
		AutoAttack: time.Second,
		Regen:      3 * time.Second,
		ResetCheck: time.Minute,
		PlayTime:   5 * time.Second,
		Autosave:   30 * time.Second,
	}
}

// Saver persists a snapshot. *save.Gateway satisfies it.
type Saver interface {
	Save(s *save.Snapshot) error
}

// TickResult reports what one tick did.
type TickResult struct {
	Ran      bool
	Tasks    int
	Attacked bool
	Healed   int
	Resets   []objective.ResetKind
	Played   int64
	Saved    bool
}

// Scheduler polls the engine. Tick is not safe for concurrent use; Run
// calls it from a single goroutine.
type Scheduler struct {
	eng   *engine.Engine
	clock gametime.Clock
	cfg   Config
	saver Saver

	lastTick   time.Time
	lastAttack time.Time
	lastRegen  time.Time
	lastReset  time.Time
	lastPlay   time.Time
	lastSave   time.Time
}

// New creates a scheduler whose timers all start now. saver may be nil.
func New(eng *engine.Engine, clock gametime.Clock, cfg Config, saver Saver) *Scheduler {
	if clock == nil {
		clock = gametime.RealClock{}
	}
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultConfig().Tick
	}
	now := clock.Now()
	return &Scheduler{
		eng:        eng,
		clock:      clock,
		cfg:        cfg,
		saver:      saver,
		lastTick:   now,
		lastAttack: now,
		lastRegen:  now,
		lastReset:  now,
		lastPlay:   now,
		lastSave:   now,
	}
}

// Tick runs every step that is due at now. Calls closer together than the
// tick interval are ignored.
func (s *Scheduler) Tick(now time.Time) TickResult {
	var res TickResult
	if !gametime.Due(s.lastTick, now, s.cfg.Tick) {
		return res
	}
	s.lastTick = now
	res.Ran = true

	res.Tasks = s.eng.RunDue(now)

	if gametime.Due(s.lastAttack, now, s.cfg.AutoAttack) && s.eng.AutoAttack() {
		s.lastAttack = now
		res.Attacked = true
	}

	if gametime.Due(s.lastRegen, now, s.cfg.Regen) {
		res.Healed = s.eng.Regenerate()
		s.lastRegen = now
	}

	if gametime.Due(s.lastReset, now, s.cfg.ResetCheck) {
		res.Resets = s.eng.CheckResets()
		s.lastReset = now
	}

	if gametime.Due(s.lastPlay, now, s.cfg.PlayTime) {
		res.Played = s.eng.RecordPlayTime()
		s.lastPlay = now
	}

	if s.saver != nil && s.cfg.Autosave > 0 && gametime.Due(s.lastSave, now, s.cfg.Autosave) {
		if err := s.Save(); err != nil {
			logger.Warning("Autosave failed", "error", err)
		} else {
			res.Saved = true
		}
		s.lastSave = now
	}
	return res
}

// Save writes the current game through the saver immediately.
func (s *Scheduler) Save() error {
	if s.saver == nil {
		return nil
	}
	return s.saver.Save(s.eng.Export())
}

// Run ticks until ctx is done, then saves once more.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	logger.Info("Scheduler started", "tick", s.cfg.Tick.String(), "autosave", s.cfg.Autosave.String())

	for {
		select {
		case <-ctx.Done():
			if err := s.Save(); err != nil {
				logger.Error("Final save failed", "error", err)
				return err
			}
			logger.Info("Scheduler stopped")
			return nil
		case <-ticker.C:
			s.Tick(s.clock.Now())
		}
	}
}

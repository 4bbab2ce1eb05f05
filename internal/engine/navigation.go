package engine

import (
	"fmt"

	"github.com/lawnchairsociety/idlerpg/internal/objective"
	"github.com/lawnchairsociety/idlerpg/internal/player"
)

// Navigate moves to a location. Entering battle with no live monster
// spawns one.
func (e *Engine) Navigate(loc player.Location) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if loc < 0 || loc >= player.LocationCount {
		return e.reject(fmt.Errorf("%w: location %d", ErrInvalidTarget, int(loc)), "Unknown location.")
	}
	e.location = loc
	if loc == player.Battle && !e.monster.IsAlive() {
		e.spawnMonster()
	}
	return nil
}

// Location returns the current location.
func (e *Engine) Location() player.Location {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.location
}

// InCombat reports whether the player is on the battle screen.
func (e *Engine) InCombat() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inCombat()
}

func (e *Engine) inCombat() bool {
	return e.location == player.Battle
}

// AutoAttackEnabled reports whether the auto-attack skill is unlocked.
func (e *Engine) AutoAttackEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.player.AutoAttack
}

// TutorialNext advances the tutorial one step.
func (e *Engine) TutorialNext() player.Tutorial {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tutorial.Next()
	return e.tutorial
}

// TutorialSkip marks the tutorial completed.
func (e *Engine) TutorialSkip() player.Tutorial {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tutorial.Skip()
	return e.tutorial
}

// TutorialRestart returns the tutorial to its first step.
func (e *Engine) TutorialRestart() player.Tutorial {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tutorial.Restart()
	return e.tutorial
}

// RecordPlayTime updates total play time and returns the seconds added.
func (e *Engine) RecordPlayTime() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	delta := e.stats.UpdateTimePlayed(e.clock.Now())
	if delta > 0 {
		e.tracker.UpdateAchievement(objective.TimePlayed, int(delta))
	}
	return delta
}

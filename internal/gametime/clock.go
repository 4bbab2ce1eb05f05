// Package gametime provides the clock used by the game loop and the helpers
// that decide when periodic resets are due.
package gametime

import (
	"fmt"
	"sync"
	"time"
)

// Reset cadences for quests and raid tiers.
const (
	QuestResetPeriod   = 24 * time.Hour
	DailyResetPeriod   = 24 * time.Hour
	WeeklyResetPeriod  = 7 * 24 * time.Hour
	MonthlyResetPeriod = 30 * 24 * time.Hour
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FakeClock only moves when told to.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// Due returns true when at least period has passed since last.
// A zero last time is always due.
func Due(last, now time.Time, period time.Duration) bool {
	if last.IsZero() {
		return true
	}
	return now.Sub(last) >= period
}

// Until returns the time left before the next reset, never negative.
func Until(last, now time.Time, period time.Duration) time.Duration {
	left := last.Add(period).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// FormatCountdown renders a duration the way the reset timers show it,
// e.g. "2d 4h", "5h 12m" or "3m".
func FormatCountdown(d time.Duration) string {
	if d <= 0 {
		return "ready"
	}
	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	minutes := int(d/time.Minute) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

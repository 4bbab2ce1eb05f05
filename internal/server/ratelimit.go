package server

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/idlerpg/internal/config"
)

// CommandLimiter stops a client IP from flooding the game with commands.
// An IP that sends more than maxCommands within one window is locked out;
// each further lockout doubles, up to maxLockout.
type CommandLimiter struct {
	mu          sync.Mutex
	clients     map[string]*commandWindow
	maxCommands int
	window      time.Duration
	lockout     time.Duration
	maxLockout  time.Duration
	now         func() time.Time

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

type commandWindow struct {
	started     time.Time
	count       int
	lockedUntil time.Time
	lockouts    int
}

// NewCommandLimiter creates a limiter and starts its cleanup goroutine.
func NewCommandLimiter(cfg config.RateLimitConfig) *CommandLimiter {
	rl := newCommandLimiter(cfg, time.Now)
	go rl.cleanupLoop()
	return rl
}

func newCommandLimiter(cfg config.RateLimitConfig, now func() time.Time) *CommandLimiter {
	rl := &CommandLimiter{
		clients:         make(map[string]*commandWindow),
		maxCommands:     cfg.MaxCommands,
		window:          cfg.Window,
		lockout:         time.Duration(cfg.LockoutSeconds) * time.Second,
		maxLockout:      time.Duration(cfg.MaxLockoutSeconds) * time.Second,
		now:             now,
		cleanupInterval: 5 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}
	if rl.window <= 0 {
		rl.window = time.Second
	}
	if rl.lockout <= 0 {
		rl.lockout = 5 * time.Second
	}
	if rl.maxLockout < rl.lockout {
		rl.maxLockout = rl.lockout
	}
	return rl
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (rl *CommandLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// Allow counts one command from ip. When the command is refused it also
// returns how long the lockout has left.
func (rl *CommandLimiter) Allow(ip string) (bool, time.Duration) {
	if rl.maxCommands <= 0 {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[ip]
	if !ok {
		w = &commandWindow{started: now}
		rl.clients[ip] = w
	}
	if now.Before(w.lockedUntil) {
		return false, w.lockedUntil.Sub(now)
	}
	if now.Sub(w.started) >= rl.window {
		w.started = now
		w.count = 0
	}

	w.count++
	if w.count <= rl.maxCommands {
		return true, 0
	}

	w.lockouts++
	d := rl.lockoutFor(w.lockouts)
	w.lockedUntil = now.Add(d)
	w.started = w.lockedUntil
	w.count = 0
	return false, d
}

// Locked reports whether ip is currently locked out.
func (rl *CommandLimiter) Locked(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	w, ok := rl.clients[ip]
	return ok && rl.now().Before(w.lockedUntil)
}

// lockoutFor returns the length of the nth lockout.
func (rl *CommandLimiter) lockoutFor(n int) time.Duration {
	d := rl.lockout
	for i := 1; i < n; i++ {
		if d >= rl.maxLockout/2 {
			return rl.maxLockout
		}
		d *= 2
	}
	return min(d, rl.maxLockout)
}

func (rl *CommandLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCleanup:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup forgets clients that have been quiet and unlocked for a while.
func (rl *CommandLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-10 * time.Minute)
	for ip, w := range rl.clients {
		if w.lockedUntil.Before(cutoff) && w.started.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

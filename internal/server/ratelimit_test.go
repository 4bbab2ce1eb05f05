package server

import (
	"testing"
	"time"

	"github.com/lawnchairsociety/idlerpg/internal/config"
)

type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time { return c.t }

func newTestLimiter(max int) (*CommandLimiter, *stepClock) {
	clock := &stepClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	rl := newCommandLimiter(config.RateLimitConfig{
		MaxCommands:       max,
		Window:            time.Second,
		LockoutSeconds:    2,
		MaxLockoutSeconds: 5,
	}, clock.Now)
	return rl, clock
}

func TestCommandLimiter_Basic(t *testing.T) {
	rl, clock := newTestLimiter(3)
	ip := "192.168.1.1"

	for i := 0; i < 3; i++ {
		if ok, _ := rl.Allow(ip); !ok {
			t.Fatalf("command %d should be allowed", i+1)
		}
	}
	ok, d := rl.Allow(ip)
	if ok {
		t.Fatal("fourth command in the window should be refused")
	}
	if d != 2*time.Second {
		t.Errorf("lockout = %v, want 2s", d)
	}
	if !rl.Locked(ip) {
		t.Error("IP should be locked")
	}
	if ok, _ := rl.Allow("192.168.1.2"); !ok {
		t.Error("other IPs should not be affected")
	}

	clock.t = clock.t.Add(time.Second)
	if ok, left := rl.Allow(ip); ok || left != time.Second {
		t.Errorf("Allow() during lockout = %v, %v; want false, 1s", ok, left)
	}

	clock.t = clock.t.Add(time.Second)
	if ok, _ := rl.Allow(ip); !ok {
		t.Error("command should be allowed once the lockout ends")
	}
}

func TestCommandLimiter_WindowResets(t *testing.T) {
	rl, clock := newTestLimiter(2)
	ip := "10.0.0.1"

	for round := 0; round < 5; round++ {
		for i := 0; i < 2; i++ {
			if ok, _ := rl.Allow(ip); !ok {
				t.Fatalf("round %d command %d refused", round, i+1)
			}
		}
		clock.t = clock.t.Add(time.Second)
	}
}

func TestCommandLimiter_ExponentialBackoff(t *testing.T) {
	rl, clock := newTestLimiter(1)
	ip := "10.0.0.1"

	want := []time.Duration{2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for i, w := range want {
		rl.Allow(ip)
		ok, d := rl.Allow(ip)
		if ok {
			t.Fatalf("lockout %d: second command allowed", i+1)
		}
		if d != w {
			t.Errorf("lockout %d = %v, want %v", i+1, d, w)
		}
		clock.t = clock.t.Add(d)
	}
}

func TestCommandLimiter_Disabled(t *testing.T) {
	rl, _ := newTestLimiter(0)
	for i := 0; i < 1000; i++ {
		if ok, _ := rl.Allow("10.0.0.1"); !ok {
			t.Fatalf("command %d refused with the limit disabled", i+1)
		}
	}
}

func TestCommandLimiter_Cleanup(t *testing.T) {
	rl, clock := newTestLimiter(5)
	rl.Allow("10.0.0.1")
	clock.t = clock.t.Add(11 * time.Minute)
	rl.Allow("10.0.0.2")

	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.clients["10.0.0.1"]; ok {
		t.Error("idle client should be cleaned up")
	}
	if _, ok := rl.clients["10.0.0.2"]; !ok {
		t.Error("recent client should be kept")
	}
}

func TestCommandLimiter_StopTwice(t *testing.T) {
	rl := NewCommandLimiter(config.RateLimitConfig{MaxCommands: 1})
	rl.Stop()
	rl.Stop()
}

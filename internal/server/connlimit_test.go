package server

import (
	"net/http"
	"testing"

	"github.com/lawnchairsociety/idlerpg/internal/config"
)

func TestConnLimiter_PerIPLimit(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 2, MaxTotal: 100})

	if !limiter.TryAcquire("192.168.1.1") || !limiter.TryAcquire("192.168.1.1") {
		t.Fatal("first two sessions from one IP should be allowed")
	}
	if limiter.TryAcquire("192.168.1.1") {
		t.Error("third session from the same IP should be rejected")
	}
	if !limiter.TryAcquire("192.168.1.2") {
		t.Error("session from another IP should be allowed")
	}

	limiter.Release("192.168.1.1")
	if !limiter.TryAcquire("192.168.1.1") {
		t.Error("session should be allowed after a release")
	}
}

func TestConnLimiter_TotalLimit(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 10, MaxTotal: 3})

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		if !limiter.TryAcquire(ip) {
			t.Fatalf("session from %s should be allowed", ip)
		}
	}
	if limiter.TryAcquire("10.0.0.4") {
		t.Error("fourth session should hit the total limit")
	}
	limiter.Release("10.0.0.1")
	if !limiter.TryAcquire("10.0.0.4") {
		t.Error("session should be allowed after a release")
	}
}

func TestConnLimiter_Unlimited(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{})
	for i := 0; i < 100; i++ {
		if !limiter.TryAcquire("192.168.1.1") {
			t.Fatalf("session %d rejected with no limits", i)
		}
	}
}

func TestConnLimiter_Stats(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 10, MaxTotal: 100})
	limiter.TryAcquire("192.168.1.1")
	limiter.TryAcquire("192.168.1.1")
	limiter.TryAcquire("192.168.1.2")

	if got := limiter.Stats(); got != (ConnStats{Total: 3, UniqueIPs: 2}) {
		t.Errorf("Stats() = %+v, want {Total:3 UniqueIPs:2}", got)
	}
	if n := limiter.OpenFor("192.168.1.1"); n != 2 {
		t.Errorf("OpenFor(192.168.1.1) = %d, want 2", n)
	}
	if n := limiter.OpenFor("192.168.1.3"); n != 0 {
		t.Errorf("OpenFor(unknown) = %d, want 0", n)
	}

	limiter.Release("192.168.1.2")
	limiter.Release("192.168.1.2")
	if got := limiter.Stats(); got != (ConnStats{Total: 2, UniqueIPs: 1}) {
		t.Errorf("Stats() after over-release = %+v, want {Total:2 UniqueIPs:1}", got)
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"192.168.1.1:12345", "192.168.1.1"},
		{"[::1]:12345", "::1"},
		{"localhost:4000", "localhost"},
		{"192.168.1.1", "192.168.1.1"},
	}
	for _, tt := range tests {
		if got := extractIP(tt.input); got != tt.want {
			t.Errorf("extractIP(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{"forwarded single", "203.0.113.50", "", "10.0.0.1:12345", "203.0.113.50"},
		{"forwarded chain", "203.0.113.50, 70.41.3.18, 150.172.238.178", "", "10.0.0.1:12345", "203.0.113.50"},
		{"real ip", "", "203.0.113.50", "10.0.0.1:12345", "203.0.113.50"},
		{"forwarded wins", "203.0.113.50", "198.51.100.25", "10.0.0.1:12345", "203.0.113.50"},
		{"blank forwarded entry", " , 70.41.3.18", "", "10.0.0.1:12345", "10.0.0.1"},
		{"remote addr", "", "", "192.168.1.100:54321", "192.168.1.100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{RemoteAddr: tt.remoteAddr, Header: make(http.Header)}
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

package server

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/lawnchairsociety/idlerpg/internal/config"
)

// ConnStats is a point-in-time count of open game connections.
type ConnStats struct {
	Total     int `json:"total"`
	UniqueIPs int `json:"uniqueIps"`
}

// ConnLimiter caps open websocket sessions per client IP and overall.
// A zero limit means unlimited.
type ConnLimiter struct {
	mu       sync.Mutex
	open     map[string]int
	total    int
	maxPerIP int
	maxTotal int
}

// NewConnLimiter creates a limiter from the connection settings.
func NewConnLimiter(cfg config.ConnectionsConfig) *ConnLimiter {
	return &ConnLimiter{
		open:     make(map[string]int),
		maxPerIP: cfg.MaxPerIP,
		maxTotal: cfg.MaxTotal,
	}
}

// TryAcquire reserves a session slot for ip. It returns false, reserving
// nothing, when either limit is already reached.
func (c *ConnLimiter) TryAcquire(ip string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxTotal > 0 && c.total >= c.maxTotal {
		return false
	}
	if c.maxPerIP > 0 && c.open[ip] >= c.maxPerIP {
		return false
	}
	c.open[ip]++
	c.total++
	return true
}

// Release frees a slot taken by TryAcquire.
func (c *ConnLimiter) Release(ip string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.open[ip]
	if n == 0 {
		return
	}
	if n > 1 {
		c.open[ip] = n - 1
	} else {
		delete(c.open, ip)
	}
	c.total--
}

// Stats returns the current counts.
func (c *ConnLimiter) Stats() ConnStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ConnStats{Total: c.total, UniqueIPs: len(c.open)}
}

// OpenFor returns how many sessions ip holds.
func (c *ConnLimiter) OpenFor(ip string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open[ip]
}

// clientIP finds the caller's address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return extractIP(r.RemoteAddr)
}

// extractIP strips the port from an ip:port address.
func extractIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

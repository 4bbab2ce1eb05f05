package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lawnchairsociety/idlerpg/internal/database"
	"gopkg.in/yaml.v3"
)

// Config is the top-level game configuration loaded from game.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  database.Config `yaml:"database"`
	Save      SaveConfig      `yaml:"save"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Combat    CombatConfig    `yaml:"combat"`
	Data      DataConfig      `yaml:"data"`
}

// ServerConfig holds settings for the websocket presentation bridge.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr        string            `yaml:"addr"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`

	// StateInterval is how often connected clients receive a state snapshot.
	StateInterval time.Duration `yaml:"state_interval"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited (not recommended).
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections to the server.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// RateLimitConfig holds command flood protection settings.
type RateLimitConfig struct {
	// MaxCommands is how many commands one IP may send per Window before
	// being locked out. 0 disables the limit.
	MaxCommands int           `yaml:"max_commands"`
	Window      time.Duration `yaml:"window"`

	// LockoutSeconds is the first lockout; repeat offenders get double
	// the previous lockout up to MaxLockoutSeconds.
	LockoutSeconds    int `yaml:"lockout_seconds"`
	MaxLockoutSeconds int `yaml:"max_lockout_seconds"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// SaveConfig controls the persistence gateway.
type SaveConfig struct {
	// Slot is the key the whole game state is stored under.
	Slot     string        `yaml:"slot"`
	Autosave time.Duration `yaml:"autosave"`
}

// SchedulerConfig holds the periodic tick cadences.
type SchedulerConfig struct {
	Tick       time.Duration `yaml:"tick"`
	AutoAttack time.Duration `yaml:"auto_attack"`
	Regen      time.Duration `yaml:"regen"`
	ResetCheck time.Duration `yaml:"reset_check"`
	PlayTime   time.Duration `yaml:"play_time"`
}

// CombatConfig holds the delays of deferred combat steps.
type CombatConfig struct {
	CounterAttackDelay time.Duration `yaml:"counter_attack_delay"`
	RespawnDelay       time.Duration `yaml:"respawn_delay"`
	RaidRespawnDelay   time.Duration `yaml:"raid_respawn_delay"`
}

// DataConfig points at optional catalog overrides.
type DataConfig struct {
	// CatalogDir holds YAML files that replace the embedded catalog files
	// of the same name. Empty uses the embedded catalog only.
	CatalogDir string `yaml:"catalog_dir"`
}

// DefaultConfig returns a Config with the game's standard cadences.
func DefaultConfig() *Config {
	db := database.DefaultConfig("data/idlerpg.db")
	db.Postgres = database.DefaultPostgresConfig()
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
			WebSocket: WebSocketConfig{
				AllowedOrigins: []string{}, // Same-origin only by default
				MaxMessageSize: 4096,
			},
			Connections: ConnectionsConfig{
				MaxPerIP: 3,
				MaxTotal: 100,
			},
			RateLimit: RateLimitConfig{
				MaxCommands:       40,
				Window:            time.Second,
				LockoutSeconds:    5,
				MaxLockoutSeconds: 60,
			},
			StateInterval: time.Second,
		},
		Database: db,
		Save: SaveConfig{
			Slot:     "idleRpgSave",
			Autosave: 30 * time.Second,
		},
		Scheduler: SchedulerConfig{
			Tick:       100 * time.Millisecond,
			AutoAttack: time.Second,
			Regen:      3 * time.Second,
			ResetCheck: time.Minute,
			PlayTime:   5 * time.Second,
		},
		Combat: CombatConfig{
			CounterAttackDelay: 500 * time.Millisecond,
			RespawnDelay:       1500 * time.Millisecond,
			RaidRespawnDelay:   2000 * time.Millisecond,
		},
	}
}

// LoadConfig loads game configuration from a YAML file, then applies
// environment overrides. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return config, err
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse %s: %w", path, err)
	}

	config.applyEnv()
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// applyEnv overrides settings from IDLERPG_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("IDLERPG_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("IDLERPG_DB_DRIVER"); v != "" {
		c.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("IDLERPG_DB_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("IDLERPG_SAVE_SLOT"); v != "" {
		c.Save.Slot = v
	}
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Save.Slot == "" {
		return fmt.Errorf("save slot must not be empty")
	}
	if c.Scheduler.Tick <= 0 {
		return fmt.Errorf("scheduler tick must be positive")
	}
	return nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	// "http://localhost:3000" -> "localhost:3000"
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}

// Package save is the persistence gateway: it turns the game state into a
// checksummed blob, stores it under a single slot and reads it back.
package save

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lawnchairsociety/idlerpg/internal/items"
	"github.com/lawnchairsociety/idlerpg/internal/logger"
	"github.com/lawnchairsociety/idlerpg/internal/objective"
	"github.com/lawnchairsociety/idlerpg/internal/player"
	"github.com/lawnchairsociety/idlerpg/internal/skills"
)

// Snapshot is the persisted game state. A nil field means the key was
// absent or unreadable, and the loader falls back to its default.
// Derived player stats are stored but recomputed on restore.
type Snapshot struct {
	Player       *player.Player               `json:"player,omitempty"`
	Equipment    *items.Equipment             `json:"equipment,omitempty"`
	Skills       *skills.Levels               `json:"skills,omitempty"`
	Inventory    []items.Item                 `json:"inventory,omitempty"`
	Consumables  *items.Consumables           `json:"consumables,omitempty"`
	Achievements []objective.AchievementState `json:"achievements,omitempty"`
	Quests       []objective.QuestState       `json:"quests,omitempty"`
	Raids        []objective.RaidState        `json:"raids,omitempty"`
	Stats        *player.Statistics           `json:"stats,omitempty"`
	Tutorial     *player.Tutorial             `json:"tutorial,omitempty"`

	GameStartTime        *time.Time `json:"gameStartTime,omitempty"`
	LastQuestReset       *time.Time `json:"lastQuestReset,omitempty"`
	LastDailyRaidReset   *time.Time `json:"lastDailyRaidReset,omitempty"`
	LastWeeklyRaidReset  *time.Time `json:"lastWeeklyRaidReset,omitempty"`
	LastMonthlyRaidReset *time.Time `json:"lastMonthlyRaidReset,omitempty"`

	CurrentLocation *player.Location `json:"currentLocation,omitempty"`
}

// Objectives converts the stored objective progress to a tracker snapshot.
// Missing reset times stay zero, which the tracker ignores.
func (s *Snapshot) Objectives() objective.Snapshot {
	o := objective.Snapshot{
		Achievements: s.Achievements,
		Quests:       s.Quests,
		Raids:        s.Raids,
	}
	o.Resets.Quests = deref(s.LastQuestReset)
	o.Resets.Daily = deref(s.LastDailyRaidReset)
	o.Resets.Weekly = deref(s.LastWeeklyRaidReset)
	o.Resets.Monthly = deref(s.LastMonthlyRaidReset)
	return o
}

// SetObjectives stores a tracker snapshot.
func (s *Snapshot) SetObjectives(o objective.Snapshot) {
	s.Achievements = o.Achievements
	s.Quests = o.Quests
	s.Raids = o.Raids
	s.LastQuestReset = ref(o.Resets.Quests)
	s.LastDailyRaidReset = ref(o.Resets.Daily)
	s.LastWeeklyRaidReset = ref(o.Resets.Weekly)
	s.LastMonthlyRaidReset = ref(o.Resets.Monthly)
}

// Encode serializes a snapshot to JSON.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot one top-level key at a time. A malformed key is
// logged and left nil; malformed list entries are dropped individually.
// Only a payload that is not a JSON object at all is an error.
func Decode(payload []byte) (*Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSaveData, err)
	}

	s := &Snapshot{
		Player:       decodeKey(raw, "player", player.New()),
		Equipment:    decodeKey(raw, "equipment", items.Equipment{}),
		Skills:       decodeKey(raw, "skills", skills.Levels{}),
		Inventory:    decodeList[items.Item](raw, "inventory"),
		Consumables:  decodeKey(raw, "consumables", items.Consumables{}),
		Achievements: decodeList[objective.AchievementState](raw, "achievements"),
		Quests:       decodeList[objective.QuestState](raw, "quests"),
		Raids:        decodeList[objective.RaidState](raw, "raids"),
		Stats:        decodeKey(raw, "stats", player.Statistics{}),
		Tutorial:     decodeKey(raw, "tutorial", player.Tutorial{}),

		GameStartTime:        decodeKey(raw, "gameStartTime", time.Time{}),
		LastQuestReset:       decodeKey(raw, "lastQuestReset", time.Time{}),
		LastDailyRaidReset:   decodeKey(raw, "lastDailyRaidReset", time.Time{}),
		LastWeeklyRaidReset:  decodeKey(raw, "lastWeeklyRaidReset", time.Time{}),
		LastMonthlyRaidReset: decodeKey(raw, "lastMonthlyRaidReset", time.Time{}),

		CurrentLocation: decodeKey(raw, "currentLocation", player.WorldMap),
	}
	return s, nil
}

// decodeKey decodes one key on top of init, so fields missing from the
// stored object keep their init values.
func decodeKey[T any](raw map[string]json.RawMessage, key string, init T) *T {
	msg, ok := raw[key]
	if !ok || string(msg) == "null" {
		return nil
	}
	v := init
	if err := json.Unmarshal(msg, &v); err != nil {
		logger.Warning("Ignoring malformed save key", "key", key, "error", err)
		return nil
	}
	return &v
}

// decodeList decodes a JSON array entry by entry, skipping bad entries.
func decodeList[T any](raw map[string]json.RawMessage, key string) []T {
	msg, ok := raw[key]
	if !ok || string(msg) == "null" {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(msg, &entries); err != nil {
		logger.Warning("Ignoring malformed save key", "key", key, "error", err)
		return nil
	}
	out := make([]T, 0, len(entries))
	for i, entry := range entries {
		var v T
		if err := json.Unmarshal(entry, &v); err != nil {
			logger.Warning("Dropping malformed save entry", "key", key, "index", i, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func ref(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

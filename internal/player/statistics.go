package player

import "time"

// Statistics tracks lifetime activity. Prestige does not reset it.
type Statistics struct {
	TotalDamageDealt int64     `json:"totalDamageDealt"`
	MonstersDefeated int       `json:"monstersDefeated"`
	CriticalHits     int       `json:"criticalHits"`
	HighestDamage    int       `json:"highestDamage"`
	TotalGoldEarned  int64     `json:"totalGoldEarned"`
	GoldSpent        int64     `json:"goldSpent"`
	SkillsUpgraded   int       `json:"skillsUpgraded"`
	ItemsPurchased   int       `json:"itemsPurchased"`
	RaidsCompleted   int       `json:"raidsCompleted"`
	TimePlayed       int64     `json:"timePlayed"` // seconds
	GameStarted      time.Time `json:"gameStarted"`
}

// NewStatistics creates a new statistics tracker.
func NewStatistics(started time.Time) Statistics {
	return Statistics{GameStarted: started}
}

// RecordAttack adds one hit's damage and crit flag.
func (s *Statistics) RecordAttack(damage int, crit bool) {
	s.TotalDamageDealt += int64(damage)
	if crit {
		s.CriticalHits++
	}
	if damage > s.HighestDamage {
		s.HighestDamage = damage
	}
}

// RecordKill increments the defeated monster count.
func (s *Statistics) RecordKill() {
	s.MonstersDefeated++
}

// RecordGoldEarned adds to lifetime gold earned.
func (s *Statistics) RecordGoldEarned(amount int) {
	s.TotalGoldEarned += int64(amount)
}

// RecordSkillPurchase records gold spent on a skill level.
func (s *Statistics) RecordSkillPurchase(goldSpent int) {
	s.GoldSpent += int64(goldSpent)
	s.SkillsUpgraded++
}

// RecordItemPurchase records a shop purchase.
func (s *Statistics) RecordItemPurchase(cost int) {
	s.GoldSpent += int64(cost)
	s.ItemsPurchased++
}

// RecordRaid increments the completed raid count.
func (s *Statistics) RecordRaid() {
	s.RaidsCompleted++
}

// UpdateTimePlayed sets play time from the game start and returns the
// number of seconds added since the last update.
func (s *Statistics) UpdateTimePlayed(now time.Time) int64 {
	if s.GameStarted.IsZero() || now.Before(s.GameStarted) {
		return 0
	}
	elapsed := int64(now.Sub(s.GameStarted) / time.Second)
	delta := elapsed - s.TimePlayed
	if delta < 0 {
		delta = 0
	}
	s.TimePlayed = elapsed
	return delta
}

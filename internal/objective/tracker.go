package objective

import (
	"time"

	"github.com/lawnchairsociety/idlerpg/internal/gametime"
)

// Hooks are called by the tracker when a latch flips. Any may be nil.
type Hooks struct {
	AchievementUnlocked func(a Achievement)
	QuestCompleted      func(q Quest)
	RaidsReset          func(t Tier)
	QuestsReset         func()

	// CreditGold pays out a completed quest's reward.
	CreditGold func(amount int)
}

// ResetTimes are the stored timestamps of the last resets.
type ResetTimes struct {
	Quests  time.Time `json:"lastQuestReset"`
	Daily   time.Time `json:"lastDailyRaidReset"`
	Weekly  time.Time `json:"lastWeeklyRaidReset"`
	Monthly time.Time `json:"lastMonthlyRaidReset"`
}

// Tier returns the reset time of a raid tier.
func (r *ResetTimes) Tier(t Tier) *time.Time {
	switch t {
	case Weekly:
		return &r.Weekly
	case Monthly:
		return &r.Monthly
	default:
		return &r.Daily
	}
}

// TierPeriod returns the reset cadence of a raid tier.
func TierPeriod(t Tier) time.Duration {
	switch t {
	case Weekly:
		return gametime.WeeklyResetPeriod
	case Monthly:
		return gametime.MonthlyResetPeriod
	default:
		return gametime.DailyResetPeriod
	}
}

// ResetKind names a periodic reset that fired.
type ResetKind string

const (
	ResetQuests  ResetKind = "quests"
	ResetDaily   ResetKind = "daily"
	ResetWeekly  ResetKind = "weekly"
	ResetMonthly ResetKind = "monthly"
)

// Tracker holds achievement, quest and raid progress.
// It is not safe for concurrent use; the engine serializes access.
type Tracker struct {
	achievements [AchievementCount]Achievement
	quests       [QuestCount]Quest
	raids        [RaidCount]Raid
	tiers        [TierCount][]RaidID
	resets       ResetTimes
	hooks        Hooks
}

// NewTracker creates a tracker with zero progress and all reset timers
// starting at now.
func NewTracker(defs *Definitions, hooks Hooks, now time.Time) *Tracker {
	t := &Tracker{hooks: hooks}
	for i, def := range defs.Achievements {
		t.achievements[i] = Achievement{AchievementDef: def}
	}
	for i, def := range defs.Quests {
		t.quests[i] = Quest{QuestDef: def}
	}
	for i, def := range defs.Raids {
		t.raids[i] = Raid{RaidDef: def}
		t.tiers[def.Tier] = append(t.tiers[def.Tier], RaidID(i))
	}
	t.resets = ResetTimes{Quests: now, Daily: now, Weekly: now, Monthly: now}
	return t
}

// UpdateAchievement adds delta to an achievement's progress. Once unlocked
// further updates are dropped. Returns true if this call unlocked it.
func (t *Tracker) UpdateAchievement(id AchievementID, delta int) bool {
	a := &t.achievements[id]
	if a.Unlocked || delta <= 0 {
		return false
	}
	a.Progress += delta
	if a.Progress < a.Target {
		return false
	}
	a.Unlocked = true
	if t.hooks.AchievementUnlocked != nil {
		t.hooks.AchievementUnlocked(*a)
	}
	return true
}

// UpdateQuest adds delta to a quest's progress. On completion the gold
// reward is paid immediately and quest_completer advances.
// Returns true if this call completed it.
func (t *Tracker) UpdateQuest(id QuestID, delta int) bool {
	q := &t.quests[id]
	if q.Completed || delta <= 0 {
		return false
	}
	q.Progress += delta
	if q.Progress < q.Target {
		return false
	}
	q.Completed = true
	if t.hooks.CreditGold != nil {
		t.hooks.CreditGold(q.Reward)
	}
	if t.hooks.QuestCompleted != nil {
		t.hooks.QuestCompleted(*q)
	}
	t.UpdateAchievement(QuestCompleter, 1)
	return true
}

// ResetQuests clears all quest progress and records the reset time.
func (t *Tracker) ResetQuests(now time.Time) {
	for i := range t.quests {
		t.quests[i].Progress = 0
		t.quests[i].Completed = false
	}
	t.resets.Quests = now
	if t.hooks.QuestsReset != nil {
		t.hooks.QuestsReset()
	}
}

// RefreshRaids recomputes availability for every tier. The first raid of a
// tier needs only its requirements; each later raid also needs the one
// before it completed.
func (t *Tracker) RefreshRaids(e Eligibility) {
	for tier := range t.tiers {
		for i, id := range t.tiers[tier] {
			r := &t.raids[id]
			met := r.Requirements.Met(e)
			if i == 0 {
				r.Available = met
				continue
			}
			prev := &t.raids[t.tiers[tier][i-1]]
			r.Available = prev.Completed && met
		}
	}
}

// ResetRaid clears completion for a tier, records the reset time and makes
// the tier's first raid available if its requirements are met.
func (t *Tracker) ResetRaid(tier Tier, now time.Time, e Eligibility) {
	for _, id := range t.tiers[tier] {
		t.raids[id].Completed = false
		t.raids[id].Available = false
	}
	*t.resets.Tier(tier) = now
	if ids := t.tiers[tier]; len(ids) > 0 {
		first := &t.raids[ids[0]]
		first.Available = first.Requirements.Met(e)
	}
	if t.hooks.RaidsReset != nil {
		t.hooks.RaidsReset(tier)
	}
}

// CheckResets runs every reset whose cadence has elapsed.
func (t *Tracker) CheckResets(now time.Time, e Eligibility) []ResetKind {
	var fired []ResetKind
	if gametime.Due(t.resets.Quests, now, gametime.QuestResetPeriod) {
		t.ResetQuests(now)
		fired = append(fired, ResetQuests)
	}
	kinds := [TierCount]ResetKind{ResetDaily, ResetWeekly, ResetMonthly}
	for tier := Tier(0); tier < TierCount; tier++ {
		if gametime.Due(*t.resets.Tier(tier), now, TierPeriod(tier)) {
			t.ResetRaid(tier, now, e)
			fired = append(fired, kinds[tier])
		}
	}
	return fired
}

// CanStartRaid reports whether a raid may be started now.
func (t *Tracker) CanStartRaid(id RaidID, e Eligibility) bool {
	t.RefreshRaids(e)
	r := &t.raids[id]
	return r.Available && !r.Completed
}

// CompleteRaid latches a raid as completed and unlocks the next in its tier.
func (t *Tracker) CompleteRaid(id RaidID, e Eligibility) {
	t.raids[id].Completed = true
	t.RefreshRaids(e)
}

// UnlockedCount returns the number of unlocked achievements.
func (t *Tracker) UnlockedCount() int {
	n := 0
	for _, a := range t.achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// Achievement returns one achievement.
func (t *Tracker) Achievement(id AchievementID) Achievement {
	return t.achievements[id]
}

// Quest returns one quest.
func (t *Tracker) Quest(id QuestID) Quest {
	return t.quests[id]
}

// Raid returns one raid.
func (t *Tracker) Raid(id RaidID) Raid {
	return t.raids[id]
}

// Achievements returns a copy of every achievement in ID order.
func (t *Tracker) Achievements() []Achievement {
	out := make([]Achievement, len(t.achievements))
	copy(out, t.achievements[:])
	return out
}

// Quests returns a copy of every quest in ID order.
func (t *Tracker) Quests() []Quest {
	out := make([]Quest, len(t.quests))
	copy(out, t.quests[:])
	return out
}

// Raids returns the raids of a tier in unlock order.
func (t *Tracker) Raids(tier Tier) []Raid {
	ids := t.tiers[tier]
	out := make([]Raid, len(ids))
	for i, id := range ids {
		out[i] = t.raids[id]
	}
	return out
}

// Resets returns the stored reset timestamps.
func (t *Tracker) Resets() ResetTimes {
	return t.resets
}

// TimeUntil returns how long until each reset is next due.
func (t *Tracker) TimeUntil(now time.Time) map[ResetKind]time.Duration {
	return map[ResetKind]time.Duration{
		ResetQuests:  gametime.Until(t.resets.Quests, now, gametime.QuestResetPeriod),
		ResetDaily:   gametime.Until(t.resets.Daily, now, gametime.DailyResetPeriod),
		ResetWeekly:  gametime.Until(t.resets.Weekly, now, gametime.WeeklyResetPeriod),
		ResetMonthly: gametime.Until(t.resets.Monthly, now, gametime.MonthlyResetPeriod),
	}
}

package objective

import "time"

// AchievementState is the persisted part of an achievement.
type AchievementState struct {
	ID       AchievementID `json:"id"`
	Progress int           `json:"progress"`
	Unlocked bool          `json:"unlocked"`
}

// QuestState is the persisted part of a quest.
type QuestState struct {
	ID        QuestID `json:"id"`
	Progress  int     `json:"progress"`
	Completed bool    `json:"completed"`
}

// RaidState is the persisted part of a raid.
type RaidState struct {
	ID        RaidID `json:"id"`
	Completed bool   `json:"completed"`
	Available bool   `json:"available"`
}

// Snapshot is the persisted tracker state. Definitions are not stored; they
// always come from the catalog.
type Snapshot struct {
	Achievements []AchievementState
	Quests       []QuestState
	Raids        []RaidState
	Resets       ResetTimes
}

// Export captures the tracker's progress.
func (t *Tracker) Export() Snapshot {
	s := Snapshot{
		Achievements: make([]AchievementState, 0, AchievementCount),
		Quests:       make([]QuestState, 0, QuestCount),
		Raids:        make([]RaidState, 0, RaidCount),
		Resets:       t.resets,
	}
	for i, a := range t.achievements {
		s.Achievements = append(s.Achievements, AchievementState{ID: AchievementID(i), Progress: a.Progress, Unlocked: a.Unlocked})
	}
	for i, q := range t.quests {
		s.Quests = append(s.Quests, QuestState{ID: QuestID(i), Progress: q.Progress, Completed: q.Completed})
	}
	for i, r := range t.raids {
		s.Raids = append(s.Raids, RaidState{ID: RaidID(i), Completed: r.Completed, Available: r.Available})
	}
	return s
}

// Restore applies saved progress. Entries missing from the snapshot keep
// their current values. A saved progress at or past the target re-latches
// without firing hooks. Raid availability is recomputed, never trusted.
func (t *Tracker) Restore(s Snapshot, e Eligibility) {
	for _, st := range s.Achievements {
		if st.ID < 0 || st.ID >= AchievementCount {
			continue
		}
		a := &t.achievements[st.ID]
		a.Progress = max(st.Progress, 0)
		a.Unlocked = st.Unlocked || a.Progress >= a.Target
	}
	for _, st := range s.Quests {
		if st.ID < 0 || st.ID >= QuestCount {
			continue
		}
		q := &t.quests[st.ID]
		q.Progress = max(st.Progress, 0)
		q.Completed = st.Completed || q.Progress >= q.Target
	}
	for _, st := range s.Raids {
		if st.ID < 0 || st.ID >= RaidCount {
			continue
		}
		t.raids[st.ID].Completed = st.Completed
	}
	restoreTime(&t.resets.Quests, s.Resets.Quests)
	restoreTime(&t.resets.Daily, s.Resets.Daily)
	restoreTime(&t.resets.Weekly, s.Resets.Weekly)
	restoreTime(&t.resets.Monthly, s.Resets.Monthly)
	t.RefreshRaids(e)
}

func restoreTime(dst *time.Time, saved time.Time) {
	if !saved.IsZero() {
		*dst = saved
	}
}

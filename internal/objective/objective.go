// Package objective tracks achievements, daily quests and raid tiers:
// progress latches, quest rewards, tier gating and periodic resets.
package objective

// AchievementDef describes an achievement.
type AchievementDef struct {
	ID          AchievementID `yaml:"id" json:"id"`
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	Icon        string        `yaml:"icon,omitempty" json:"icon,omitempty"`
	Target      int           `yaml:"target" json:"target"`
}

// Achievement is an achievement with its progress. Unlocked is a one-way latch.
type Achievement struct {
	AchievementDef
	Progress int  `json:"progress"`
	Unlocked bool `json:"unlocked"`
}

// QuestDef describes a daily quest.
type QuestDef struct {
	ID          QuestID `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Target      int     `yaml:"target" json:"target"`
	Reward      int     `yaml:"reward" json:"reward"` // gold
}

// Quest is a quest with its progress. Completed is a one-way latch until
// the next reset.
type Quest struct {
	QuestDef
	Progress  int  `json:"progress"`
	Completed bool `json:"completed"`
}

// Boss is a raid boss. Its stats are used as-is, without level scaling.
type Boss struct {
	Name   string `yaml:"name" json:"name"`
	Sprite string `yaml:"sprite" json:"sprite"`
	HP     int    `yaml:"hp" json:"hp"`
	Damage int    `yaml:"damage" json:"damage"`
	Level  int    `yaml:"level" json:"level"`
}

// Requirements gate access to a raid.
type Requirements struct {
	MinLevel    int `yaml:"level" json:"level"`
	MinGold     int `yaml:"gold" json:"gold"`
	MinPrestige int `yaml:"prestige,omitempty" json:"prestige,omitempty"`
}

// Rewards are granted when a raid boss falls.
type Rewards struct {
	Gold  int      `yaml:"gold" json:"gold"`
	Exp   int      `yaml:"exp" json:"exp"`
	Items []string `yaml:"items" json:"items"`
}

// RaidDef describes a raid.
type RaidDef struct {
	ID           RaidID       `yaml:"id" json:"id"`
	Name         string       `yaml:"name" json:"name"`
	Description  string       `yaml:"description" json:"description"`
	Tier         Tier         `yaml:"tier" json:"tier"`
	Boss         Boss         `yaml:"boss" json:"boss"`
	Requirements Requirements `yaml:"requirements" json:"requirements"`
	Rewards      Rewards      `yaml:"rewards" json:"rewards"`
}

// Raid is a raid with its completion and availability flags.
type Raid struct {
	RaidDef
	Completed bool `json:"completed"`
	Available bool `json:"available"`
}

// Eligibility is the slice of player state raid requirements look at.
type Eligibility struct {
	Level    int
	Gold     int
	Prestige int
}

// Met reports whether the player satisfies the requirements.
func (r Requirements) Met(e Eligibility) bool {
	return e.Level >= r.MinLevel &&
		e.Gold >= r.MinGold &&
		(r.MinPrestige == 0 || e.Prestige >= r.MinPrestige)
}

// Definitions is the full objective catalog, indexed by ID.
type Definitions struct {
	Achievements [AchievementCount]AchievementDef
	Quests       [QuestCount]QuestDef
	Raids        [RaidCount]RaidDef
}

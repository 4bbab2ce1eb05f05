package objective

import "fmt"

// AchievementID identifies an achievement.
type AchievementID int

const (
	FirstKill AchievementID = iota
	Level5
	Rich1000
	SkillMaster
	MonsterSlayer
	EquipmentCollector
	Level25
	Rich10000
	CritMaster
	PrestigeMaster
	QuestCompleter
	TimePlayed
	RaidMaster

	// AchievementCount is the number of achievements.
	AchievementCount
)

var achievementNames = [AchievementCount]string{
	"first_kill", "level_5", "rich_1000", "skill_master", "monster_slayer", "equipment_collector",
	"level_25", "rich_10000", "crit_master", "prestige_master", "quest_completer", "time_played", "raid_master",
}

func (id AchievementID) String() string {
	if id < 0 || id >= AchievementCount {
		return fmt.Sprintf("achievement(%d)", int(id))
	}
	return achievementNames[id]
}

// ParseAchievementID converts an identifier like "first_kill".
func ParseAchievementID(s string) (AchievementID, error) {
	i, ok := lookup(achievementNames[:], s)
	if !ok {
		return 0, fmt.Errorf("unknown achievement %q", s)
	}
	return AchievementID(i), nil
}

func (id AchievementID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *AchievementID) UnmarshalText(b []byte) error {
	parsed, err := ParseAchievementID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// QuestID identifies a daily quest.
type QuestID int

const (
	KillMonsters QuestID = iota
	EarnGold
	GainLevels
	BuyEquipment

	// QuestCount is the number of quests.
	QuestCount
)

var questNames = [QuestCount]string{"kill_monsters", "earn_gold", "level_up", "buy_equipment"}

func (id QuestID) String() string {
	if id < 0 || id >= QuestCount {
		return fmt.Sprintf("quest(%d)", int(id))
	}
	return questNames[id]
}

// ParseQuestID converts an identifier like "kill_monsters".
func ParseQuestID(s string) (QuestID, error) {
	i, ok := lookup(questNames[:], s)
	if !ok {
		return 0, fmt.Errorf("unknown quest %q", s)
	}
	return QuestID(i), nil
}

func (id QuestID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *QuestID) UnmarshalText(b []byte) error {
	parsed, err := ParseQuestID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// RaidID identifies a raid. Within a tier, raids unlock in ID order.
type RaidID int

const (
	GoblinKing RaidID = iota
	OrcWarlord
	DarkMage
	DragonPrince
	PhoenixKing
	WorldDestroyer

	// RaidCount is the number of raids.
	RaidCount
)

var raidNames = [RaidCount]string{
	"goblin_king", "orc_warlord", "dark_mage", "dragon_prince", "phoenix_king", "world_destroyer",
}

func (id RaidID) String() string {
	if id < 0 || id >= RaidCount {
		return fmt.Sprintf("raid(%d)", int(id))
	}
	return raidNames[id]
}

// ParseRaidID converts an identifier like "goblin_king".
func ParseRaidID(s string) (RaidID, error) {
	i, ok := lookup(raidNames[:], s)
	if !ok {
		return 0, fmt.Errorf("unknown raid %q", s)
	}
	return RaidID(i), nil
}

func (id RaidID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *RaidID) UnmarshalText(b []byte) error {
	parsed, err := ParseRaidID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Tier is a raid group with its own reset cadence.
type Tier int

const (
	Daily Tier = iota
	Weekly
	Monthly

	// TierCount is the number of raid tiers.
	TierCount
)

var tierNames = [TierCount]string{"daily", "weekly", "monthly"}

func (t Tier) String() string {
	if t < 0 || t >= TierCount {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// ParseTier converts "daily", "weekly" or "monthly".
func ParseTier(s string) (Tier, error) {
	i, ok := lookup(tierNames[:], s)
	if !ok {
		return 0, fmt.Errorf("unknown raid tier %q", s)
	}
	return Tier(i), nil
}

func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func lookup(names []string, s string) (int, bool) {
	for i, name := range names {
		if name == s {
			return i, true
		}
	}
	return 0, false
}

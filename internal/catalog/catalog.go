// Package catalog loads the static game data: monsters, skills, shop stock,
// raid drops and objective definitions.
//
// The default catalog is embedded in the binary. LoadDir overlays files from
// a directory on top of it, one file at a time.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lawnchairsociety/idlerpg/internal/items"
	"github.com/lawnchairsociety/idlerpg/internal/logger"
	"github.com/lawnchairsociety/idlerpg/internal/monster"
	"github.com/lawnchairsociety/idlerpg/internal/objective"
	"github.com/lawnchairsociety/idlerpg/internal/skills"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// Data file names.
const (
	MonstersFile     = "monsters.yaml"
	SkillsFile       = "skills.yaml"
	ShopFile         = "shop.yaml"
	AchievementsFile = "achievements.yaml"
	QuestsFile       = "quests.yaml"
	RaidsFile        = "raids.yaml"
)

// Files lists every data file in load order.
var Files = []string{MonstersFile, SkillsFile, ShopFile, AchievementsFile, QuestsFile, RaidsFile}

// Catalog is the complete set of static game data.
type Catalog struct {
	Monsters      []monster.Template
	Skills        skills.Table
	Shop          items.Shop
	StarterWeapon items.Item
	StarterArmor  items.Item
	Drops         map[string]items.Item // raid drops by display name
	Objectives    objective.Definitions
}

type monstersFile struct {
	Monsters []monster.Template `yaml:"monsters"`
}

type skillsFile struct {
	Skills []skills.Definition `yaml:"skills"`
}

type shopFile struct {
	Starter struct {
		Weapon items.Item `yaml:"weapon"`
		Armor  items.Item `yaml:"armor"`
	} `yaml:"starter"`
	Shop      items.Shop   `yaml:"shop"`
	RaidDrops []items.Item `yaml:"raid_drops"`
}

type achievementsFile struct {
	Achievements []objective.AchievementDef `yaml:"achievements"`
}

type questsFile struct {
	Quests []objective.QuestDef `yaml:"quests"`
}

type raidsFile struct {
	Raids []objective.RaidDef `yaml:"raids"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// MustDefault is Default for callers that cannot recover from a broken build.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadDir loads the catalog, taking each data file from dir when present and
// from the embedded defaults otherwise.
func LoadDir(dir string) (*Catalog, error) {
	if dir == "" {
		return Default()
	}
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return Load(overlayFS{dir: dir, base: sub})
}

// Load decodes every data file from fsys and validates the result.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{Drops: make(map[string]items.Item)}

	var mf monstersFile
	if err := decodeFile(fsys, MonstersFile, &mf); err != nil {
		return nil, err
	}
	c.Monsters = mf.Monsters

	var sf skillsFile
	if err := decodeFile(fsys, SkillsFile, &sf); err != nil {
		return nil, err
	}
	seenSkills := make(map[skills.ID]bool)
	for _, def := range sf.Skills {
		if seenSkills[def.ID] {
			return nil, fmt.Errorf("%s: duplicate skill %s", SkillsFile, def.ID)
		}
		seenSkills[def.ID] = true
		c.Skills[def.ID] = def
	}
	if len(seenSkills) != int(skills.Count) {
		return nil, fmt.Errorf("%s: %d skills defined, want %d", SkillsFile, len(seenSkills), skills.Count)
	}

	var shf shopFile
	if err := decodeFile(fsys, ShopFile, &shf); err != nil {
		return nil, err
	}
	c.Shop = shf.Shop
	c.StarterWeapon = shf.Starter.Weapon
	c.StarterArmor = shf.Starter.Armor
	for _, drop := range shf.RaidDrops {
		c.Drops[drop.Name] = drop
	}

	if err := c.loadObjectives(fsys); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) loadObjectives(fsys fs.FS) error {
	var af achievementsFile
	if err := decodeFile(fsys, AchievementsFile, &af); err != nil {
		return err
	}
	seenAch := make(map[objective.AchievementID]bool)
	for _, def := range af.Achievements {
		if seenAch[def.ID] {
			return fmt.Errorf("%s: duplicate achievement %s", AchievementsFile, def.ID)
		}
		seenAch[def.ID] = true
		c.Objectives.Achievements[def.ID] = def
	}
	if len(seenAch) != int(objective.AchievementCount) {
		return fmt.Errorf("%s: %d achievements defined, want %d", AchievementsFile, len(seenAch), objective.AchievementCount)
	}

	var qf questsFile
	if err := decodeFile(fsys, QuestsFile, &qf); err != nil {
		return err
	}
	seenQuest := make(map[objective.QuestID]bool)
	for _, def := range qf.Quests {
		if seenQuest[def.ID] {
			return fmt.Errorf("%s: duplicate quest %s", QuestsFile, def.ID)
		}
		seenQuest[def.ID] = true
		c.Objectives.Quests[def.ID] = def
	}
	if len(seenQuest) != int(objective.QuestCount) {
		return fmt.Errorf("%s: %d quests defined, want %d", QuestsFile, len(seenQuest), objective.QuestCount)
	}

	var rf raidsFile
	if err := decodeFile(fsys, RaidsFile, &rf); err != nil {
		return err
	}
	seenRaid := make(map[objective.RaidID]bool)
	for _, def := range rf.Raids {
		if seenRaid[def.ID] {
			return fmt.Errorf("%s: duplicate raid %s", RaidsFile, def.ID)
		}
		seenRaid[def.ID] = true
		c.Objectives.Raids[def.ID] = def
	}
	if len(seenRaid) != int(objective.RaidCount) {
		return fmt.Errorf("%s: %d raids defined, want %d", RaidsFile, len(seenRaid), objective.RaidCount)
	}
	return nil
}

// Validate checks the catalog for values the engine cannot work with.
func (c *Catalog) Validate() error {
	var errs []error

	if len(c.Monsters) == 0 {
		errs = append(errs, errors.New("no monsters defined"))
	}
	for i, m := range c.Monsters {
		if m.Name == "" || m.HP <= 0 {
			errs = append(errs, fmt.Errorf("monster %d: needs a name and positive hp", i))
		}
	}

	for id := skills.ID(0); id < skills.Count; id++ {
		def := c.Skills[id]
		if def.MaxLevel <= 0 || def.BaseCost <= 0 {
			errs = append(errs, fmt.Errorf("skill %s: cost and max_level must be positive", id))
		}
		if def.Currency != skills.Gold && def.Currency != skills.Gems {
			errs = append(errs, fmt.Errorf("skill %s: unknown currency %q", id, def.Currency))
		}
	}

	if c.StarterWeapon.Type != items.Weapon {
		errs = append(errs, errors.New("starter weapon must be a weapon"))
	}
	if c.StarterArmor.Type != items.Armor {
		errs = append(errs, errors.New("starter armor must be armor"))
	}

	keys := make(map[string]bool)
	for _, item := range c.Shop.All() {
		switch {
		case item.Key == "":
			errs = append(errs, fmt.Errorf("shop item %q has no id", item.Name))
		case keys[item.Key]:
			errs = append(errs, fmt.Errorf("duplicate shop item %q", item.Key))
		}
		keys[item.Key] = true
		if item.Cost <= 0 {
			errs = append(errs, fmt.Errorf("shop item %q: cost must be positive", item.Key))
		}
		if item.Type == items.Consumable && item.Consumable == items.NoConsumable {
			errs = append(errs, fmt.Errorf("shop item %q: consumable type missing", item.Key))
		}
	}

	for id := objective.AchievementID(0); id < objective.AchievementCount; id++ {
		if c.Objectives.Achievements[id].Target <= 0 {
			errs = append(errs, fmt.Errorf("achievement %s: target must be positive", id))
		}
	}
	for id := objective.QuestID(0); id < objective.QuestCount; id++ {
		if c.Objectives.Quests[id].Target <= 0 {
			errs = append(errs, fmt.Errorf("quest %s: target must be positive", id))
		}
	}
	for id := objective.RaidID(0); id < objective.RaidCount; id++ {
		if c.Objectives.Raids[id].Boss.HP <= 0 {
			errs = append(errs, fmt.Errorf("raid %s: boss hp must be positive", id))
		}
	}

	return errors.Join(errs...)
}

func decodeFile(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// overlayFS serves files from dir, falling back to base.
type overlayFS struct {
	dir  string
	base fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	path := filepath.Join(o.dir, filepath.FromSlash(name))
	if f, err := os.Open(path); err == nil {
		logger.Info("Loaded catalog override", "file", path)
		return f, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.base.Open(name)
}

package items

import (
	"fmt"

	"github.com/google/uuid"
)

// Item is a piece of equipment or a consumable, either a catalog entry
// or an owned instance.
type Item struct {
	ID          string         `yaml:"-" json:"id,omitempty"` // instance ID, empty for catalog entries
	Key         string         `yaml:"id" json:"key"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Type        ItemType       `yaml:"type" json:"type"`
	Cost        int            `yaml:"cost,omitempty" json:"cost,omitempty"`
	Damage      int            `yaml:"damage,omitempty" json:"damage,omitempty"`
	Defense     int            `yaml:"defense,omitempty" json:"defense,omitempty"`
	Strength    int            `yaml:"strength,omitempty" json:"strength,omitempty"`
	GoldBonus   float64        `yaml:"gold_bonus,omitempty" json:"goldBonus,omitempty"`
	CritChance  float64        `yaml:"crit_chance,omitempty" json:"critChance,omitempty"`
	Consumable  ConsumableType `yaml:"consumable,omitempty" json:"consumable,omitempty"`
}

// NewInstance copies a catalog item and tags it with a fresh time-ordered ID.
func NewInstance(item Item) Item {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	item.ID = id.String()
	return item
}

// NewDrop builds a raid reward item from its name. Unknown names become
// stat-less items typed by ClassifyByName.
func NewDrop(name string, known map[string]Item) Item {
	if item, ok := known[name]; ok {
		return NewInstance(item)
	}
	return NewInstance(Item{Name: name, Type: ClassifyByName(name)})
}

// String returns a formatted string representation of the item
func (i Item) String() string {
	switch i.Type {
	case Weapon:
		return fmt.Sprintf("%s (+%d damage)", i.Name, i.Damage)
	case Armor:
		return fmt.Sprintf("%s (+%d defense)", i.Name, i.Defense)
	case Accessory:
		return fmt.Sprintf("%s (%s)", i.Name, i.BonusSummary())
	default:
		return i.Name
	}
}

// BonusSummary describes an accessory's bonuses, e.g. "+8 strength".
func (i Item) BonusSummary() string {
	switch {
	case i.Strength > 0:
		return fmt.Sprintf("+%d strength", i.Strength)
	case i.Defense > 0:
		return fmt.Sprintf("+%d defense", i.Defense)
	case i.GoldBonus > 0:
		return fmt.Sprintf("+%.0f%% gold", i.GoldBonus*100)
	case i.CritChance > 0:
		return fmt.Sprintf("+%.0f%% crit", i.CritChance*100)
	default:
		return "no bonus"
	}
}

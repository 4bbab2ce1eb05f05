package items

import (
	"fmt"
	"strings"
)

// ItemType represents the category of an item
type ItemType int

const (
	Weapon ItemType = iota
	Armor
	Accessory
	Consumable
)

var itemTypeNames = [...]string{"weapon", "armor", "accessory", "consumable"}

// String returns the string representation of an ItemType
func (t ItemType) String() string {
	if t < 0 || int(t) >= len(itemTypeNames) {
		return "unknown"
	}
	return itemTypeNames[t]
}

// ParseItemType converts a string to an ItemType
func ParseItemType(s string) (ItemType, error) {
	for i, name := range itemTypeNames {
		if strings.EqualFold(s, name) {
			return ItemType(i), nil
		}
	}
	return Weapon, fmt.Errorf("unknown item type %q", s)
}

func (t ItemType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ItemType) UnmarshalText(b []byte) error {
	parsed, err := ParseItemType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// IsEquippable returns true if the item type goes into an equipment slot
func (t ItemType) IsEquippable() bool {
	return t == Weapon || t == Armor || t == Accessory
}

// ConsumableType identifies which counter a consumable feeds.
type ConsumableType int

const (
	NoConsumable ConsumableType = iota
	HealPotion
	PoisonPotion
	StrengthPotion
	DefensePotion
)

var consumableNames = [...]string{"", "healPotion", "poisonPotion", "strengthPotion", "defensePotion"}

func (c ConsumableType) String() string {
	if c < 0 || int(c) >= len(consumableNames) {
		return "unknown"
	}
	return consumableNames[c]
}

// ParseConsumableType converts a name like "healPotion" to a ConsumableType.
func ParseConsumableType(s string) (ConsumableType, error) {
	for i := 1; i < len(consumableNames); i++ {
		if strings.EqualFold(s, consumableNames[i]) {
			return ConsumableType(i), nil
		}
	}
	return NoConsumable, fmt.Errorf("unknown consumable %q", s)
}

func (c ConsumableType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ConsumableType) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*c = NoConsumable
		return nil
	}
	parsed, err := ParseConsumableType(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ClassifyByName guesses the slot of a raid drop from its name.
func ClassifyByName(name string) ItemType {
	switch {
	case strings.Contains(name, "Sword"), strings.Contains(name, "Axe"), strings.Contains(name, "Staff"):
		return Weapon
	case strings.Contains(name, "Armor"):
		return Armor
	default:
		return Accessory
	}
}

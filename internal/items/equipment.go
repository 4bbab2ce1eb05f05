package items

import "errors"

// ErrNotEquippable is returned when equipping a consumable.
var ErrNotEquippable = errors.New("item cannot be equipped")

// Equipment holds the three equipment slots.
type Equipment struct {
	Weapon    *Item `json:"weapon"`
	Armor     *Item `json:"armor"`
	Accessory *Item `json:"accessory"`
}

// Bonus is the sum of accessory stat bonuses.
type Bonus struct {
	Strength   int
	Defense    int
	GoldBonus  float64
	CritChance float64
}

// NewEquipment returns slots filled with the starter weapon and armor.
func NewEquipment(weapon, armor Item) Equipment {
	return Equipment{Weapon: &weapon, Armor: &armor}
}

// Equip puts the item into the slot matching its type, overwriting
// whatever was there. The replaced item is discarded.
func (e *Equipment) Equip(item Item) error {
	switch item.Type {
	case Weapon:
		e.Weapon = &item
	case Armor:
		e.Armor = &item
	case Accessory:
		e.Accessory = &item
	default:
		return ErrNotEquippable
	}
	return nil
}

// WeaponDamage returns the equipped weapon's damage, or 0.
func (e Equipment) WeaponDamage() int {
	if e.Weapon == nil {
		return 0
	}
	return e.Weapon.Damage
}

// ArmorDefense returns the equipped armor's defense, or 0.
func (e Equipment) ArmorDefense() int {
	if e.Armor == nil {
		return 0
	}
	return e.Armor.Defense
}

// AccessoryBonus returns the bonuses of the equipped accessory.
func (e Equipment) AccessoryBonus() Bonus {
	if e.Accessory == nil {
		return Bonus{}
	}
	a := e.Accessory
	return Bonus{
		Strength:   a.Strength,
		Defense:    a.Defense,
		GoldBonus:  a.GoldBonus,
		CritChance: a.CritChance,
	}
}

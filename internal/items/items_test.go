package items

import (
	"encoding/json"
	"testing"
)

func TestParseItemType(t *testing.T) {
	tests := []struct {
		in      string
		want    ItemType
		wantErr bool
	}{
		{"weapon", Weapon, false},
		{"Armor", Armor, false},
		{"accessory", Accessory, false},
		{"consumable", Consumable, false},
		{"key", Weapon, true},
	}

	for _, tc := range tests {
		got, err := ParseItemType(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseItemType(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("ParseItemType(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestClassifyByName(t *testing.T) {
	tests := []struct {
		name string
		want ItemType
	}{
		{"Warlord Axe", Weapon},
		{"Dark Staff", Weapon},
		{"Legendary Sword", Weapon},
		{"Dragon Scale Armor", Armor},
		{"Goblin Crown", Accessory},
		{"Phoenix Feather", Accessory},
	}

	for _, tc := range tests {
		if got := ClassifyByName(tc.name); got != tc.want {
			t.Errorf("ClassifyByName(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestNewInstanceAssignsUniqueIDs(t *testing.T) {
	sword := Item{Key: "iron_sword", Name: "Iron Sword", Type: Weapon, Damage: 15, Cost: 150}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		inst := NewInstance(sword)
		if inst.ID == "" {
			t.Fatal("NewInstance() returned empty ID")
		}
		if seen[inst.ID] {
			t.Fatalf("NewInstance() returned duplicate ID %s", inst.ID)
		}
		seen[inst.ID] = true
		if inst.Name != sword.Name || inst.Damage != sword.Damage {
			t.Errorf("NewInstance() changed item fields: %+v", inst)
		}
	}
	if sword.ID != "" {
		t.Error("NewInstance() should not modify the catalog item")
	}
}

func TestNewDrop(t *testing.T) {
	known := map[string]Item{
		"Warlord Axe": {Name: "Warlord Axe", Type: Weapon, Damage: 50},
	}

	axe := NewDrop("Warlord Axe", known)
	if axe.Damage != 50 || axe.Type != Weapon || axe.ID == "" {
		t.Errorf("NewDrop(Warlord Axe) = %+v", axe)
	}

	crown := NewDrop("Goblin Crown", known)
	if crown.Type != Accessory || crown.ID == "" {
		t.Errorf("NewDrop(Goblin Crown) = %+v", crown)
	}
}

func TestRemoveByID(t *testing.T) {
	a := NewInstance(Item{Name: "Iron Sword", Type: Weapon})
	b := NewInstance(Item{Name: "Leather Armor", Type: Armor})
	inv := []Item{a, b}

	removed, ok := RemoveByID(&inv, a.ID)
	if !ok || removed.Name != "Iron Sword" {
		t.Fatalf("RemoveByID() = %+v, %v", removed, ok)
	}
	if len(inv) != 1 || inv[0].ID != b.ID {
		t.Errorf("inventory after remove = %+v", inv)
	}
	if _, ok := RemoveByID(&inv, "missing"); ok {
		t.Error("RemoveByID(missing) should fail")
	}
}

func TestFindByName(t *testing.T) {
	inv := []Item{
		{Name: "Steel Sword"},
		{Name: "Iron Sword"},
	}

	if got, ok := FindByName(inv, "iron sword"); !ok || got.Name != "Iron Sword" {
		t.Errorf("FindByName(iron sword) = %+v, %v", got, ok)
	}
	if got, ok := FindByName(inv, "sword"); !ok || got.Name != "Steel Sword" {
		t.Errorf("FindByName(sword) = %+v, %v", got, ok)
	}
	if _, ok := FindByName(inv, "axe"); ok {
		t.Error("FindByName(axe) should not match")
	}
}

func TestEquipmentEquip(t *testing.T) {
	eq := NewEquipment(
		Item{Name: "Rusty Sword", Type: Weapon, Damage: 5},
		Item{Name: "Cloth Armor", Type: Armor, Defense: 2},
	)

	if eq.WeaponDamage() != 5 || eq.ArmorDefense() != 2 {
		t.Fatalf("starter gear = %d dmg, %d def", eq.WeaponDamage(), eq.ArmorDefense())
	}

	if err := eq.Equip(Item{Name: "Iron Sword", Type: Weapon, Damage: 15}); err != nil {
		t.Fatalf("Equip(weapon) error: %v", err)
	}
	if eq.WeaponDamage() != 15 {
		t.Errorf("WeaponDamage() = %d, want 15", eq.WeaponDamage())
	}

	if err := eq.Equip(Item{Name: "Power Ring", Type: Accessory, Strength: 8}); err != nil {
		t.Fatalf("Equip(accessory) error: %v", err)
	}
	if b := eq.AccessoryBonus(); b.Strength != 8 {
		t.Errorf("AccessoryBonus().Strength = %d, want 8", b.Strength)
	}

	if err := eq.Equip(Item{Name: "Minor Heal Potion", Type: Consumable}); err != ErrNotEquippable {
		t.Errorf("Equip(consumable) error = %v, want ErrNotEquippable", err)
	}
}

func TestConsumables(t *testing.T) {
	c := StartingConsumables()

	if c.Count(HealPotion) != 3 || c.Count(PoisonPotion) != 2 {
		t.Fatalf("starting consumables = %+v", c)
	}
	for i := 0; i < 3; i++ {
		if !c.Take(HealPotion) {
			t.Fatalf("Take(heal) #%d failed", i+1)
		}
	}
	if c.Take(HealPotion) {
		t.Error("Take(heal) with none left should fail")
	}
	if c.Count(HealPotion) != 0 {
		t.Errorf("Count(heal) = %d, want 0", c.Count(HealPotion))
	}

	c.Add(StrengthPotion, 2)
	if c.Count(StrengthPotion) != 3 {
		t.Errorf("Count(strength) = %d, want 3", c.Count(StrengthPotion))
	}
	if c.Add(NoConsumable, 1) {
		t.Error("Add(NoConsumable) should fail")
	}
}

func TestItemJSONUsesNames(t *testing.T) {
	potion := Item{Key: "minor_heal", Name: "Minor Heal Potion", Type: Consumable, Consumable: HealPotion, Cost: 30}

	data, err := json.Marshal(potion)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if decoded["type"] != "consumable" {
		t.Errorf("type = %v, want consumable", decoded["type"])
	}
	if decoded["consumable"] != "healPotion" {
		t.Errorf("consumable = %v, want healPotion", decoded["consumable"])
	}
}

func TestShopFind(t *testing.T) {
	shop := Shop{
		Weapons:     []Item{{Key: "iron_sword", Name: "Iron Sword", Type: Weapon}},
		Consumables: []Item{{Key: "minor_heal", Name: "Minor Heal Potion", Type: Consumable}},
	}

	if got, ok := shop.Find("minor_heal"); !ok || got.Name != "Minor Heal Potion" {
		t.Errorf("Find(minor_heal) = %+v, %v", got, ok)
	}
	if _, ok := shop.Find("excalibur"); ok {
		t.Error("Find(excalibur) should fail")
	}
	if n := len(shop.All()); n != 2 {
		t.Errorf("All() returned %d items, want 2", n)
	}
}

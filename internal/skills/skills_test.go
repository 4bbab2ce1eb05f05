package skills

import (
	"encoding/json"
	"math"
	"testing"
)

func testTable() *Table {
	var t Table
	for i := ID(0); i < Count; i++ {
		t[i] = Definition{ID: i, Name: i.String(), BaseCost: 100, Effect: 0.1, MaxLevel: 10, Currency: Gold}
	}
	t[AutoAttack] = Definition{ID: AutoAttack, BaseCost: 100, Effect: 0.1, MaxLevel: 50, Currency: Gold}
	t[CritChance] = Definition{ID: CritChance, BaseCost: 250, Effect: 0.02, MaxLevel: 25, Currency: Gold}
	t[GoldBonus] = Definition{ID: GoldBonus, BaseCost: 300, Effect: 0.1, MaxLevel: 20, Currency: Gold}
	t[HealthRegen] = Definition{ID: HealthRegen, BaseCost: 200, Effect: 1, MaxLevel: 30, Currency: Gold}
	t[Vitality] = Definition{ID: Vitality, BaseCost: 600, Effect: 10, MaxLevel: 20, Currency: Gold}
	t[Omnipotence] = Definition{ID: Omnipotence, BaseCost: 10000, Effect: 0.5, MaxLevel: 8, Currency: Gems}
	return &t
}

func TestParseID(t *testing.T) {
	for i := ID(0); i < Count; i++ {
		got, err := ParseID(i.String())
		if err != nil || got != i {
			t.Errorf("ParseID(%q) = %v, %v; want %v", i.String(), got, err, i)
		}
	}
	if _, err := ParseID("fireball"); err == nil {
		t.Error("ParseID(fireball) should fail")
	}
}

func TestCost(t *testing.T) {
	table := testTable()
	tests := []struct {
		id    ID
		level int
		want  int
	}{
		{AutoAttack, 0, 100},
		{AutoAttack, 1, 150},
		{CritChance, 2, 562}, // 562.5
		{Omnipotence, 0, 10000},
	}

	for _, tc := range tests {
		if got := table.Cost(tc.id, tc.level); got != tc.want {
			t.Errorf("Cost(%s, %d) = %d, want %d", tc.id, tc.level, got, tc.want)
		}
	}
}

func TestDerive(t *testing.T) {
	table := testTable()

	tests := []struct {
		name        string
		levels      func(*Levels)
		playerLevel int
		want        Derived
	}{
		{
			name:        "fresh character",
			levels:      func(*Levels) {},
			playerLevel: 1,
			want:        Derived{CritChance: 0.05, GoldBonus: 1.0, MaxHP: 100},
		},
		{
			name: "combat and economy",
			levels: func(l *Levels) {
				l[AutoAttack] = 1
				l[CritChance] = 5
				l[GoldBonus] = 3
			},
			playerLevel: 1,
			want:        Derived{AutoAttack: true, CritChance: 0.15, GoldBonus: 1.3, MaxHP: 100},
		},
		{
			name: "utility at level 4",
			levels: func(l *Levels) {
				l[HealthRegen] = 2
				l[Vitality] = 3
			},
			playerLevel: 4,
			want:        Derived{CritChance: 0.05, GoldBonus: 1.0, HealthRegen: 2, MaxHP: 190},
		},
	}

	for _, tc := range tests {
		var l Levels
		tc.levels(&l)
		got := Derive(table, l, tc.playerLevel)

		if got.AutoAttack != tc.want.AutoAttack {
			t.Errorf("%s: AutoAttack = %v, want %v", tc.name, got.AutoAttack, tc.want.AutoAttack)
		}
		if math.Abs(got.CritChance-tc.want.CritChance) > 1e-9 {
			t.Errorf("%s: CritChance = %v, want %v", tc.name, got.CritChance, tc.want.CritChance)
		}
		if math.Abs(got.GoldBonus-tc.want.GoldBonus) > 1e-9 {
			t.Errorf("%s: GoldBonus = %v, want %v", tc.name, got.GoldBonus, tc.want.GoldBonus)
		}
		if got.HealthRegen != tc.want.HealthRegen {
			t.Errorf("%s: HealthRegen = %d, want %d", tc.name, got.HealthRegen, tc.want.HealthRegen)
		}
		if got.MaxHP != tc.want.MaxHP {
			t.Errorf("%s: MaxHP = %d, want %d", tc.name, got.MaxHP, tc.want.MaxHP)
		}
	}
}

func TestDeriveCapsCritChance(t *testing.T) {
	table := testTable()
	var l Levels
	l[CritChance] = 100
	if got := Derive(table, l, 1).CritChance; got != 1 {
		t.Errorf("CritChance = %v, want 1", got)
	}
}

func TestLevelsClamp(t *testing.T) {
	table := testTable()
	var l Levels
	l[AutoAttack] = 99
	l[Vitality] = -3
	l[CritChance] = 7
	l.Clamp(table)

	if l[AutoAttack] != 50 || l[Vitality] != 0 || l[CritChance] != 7 {
		t.Errorf("Clamp() = auto %d, vitality %d, crit %d", l[AutoAttack], l[Vitality], l[CritChance])
	}
}

func TestLevelsJSON(t *testing.T) {
	var l Levels
	l[AutoAttack] = 3
	l[Omnipotence] = 1

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var back Levels
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if back != l {
		t.Errorf("round trip = %v, want %v", back, l)
	}

	var partial Levels
	if err := json.Unmarshal([]byte(`{"auto-attack": 2, "teleport": 5}`), &partial); err != nil {
		t.Fatalf("Unmarshal with unknown skill error: %v", err)
	}
	if partial[AutoAttack] != 2 {
		t.Errorf("auto-attack = %d, want 2", partial[AutoAttack])
	}
}

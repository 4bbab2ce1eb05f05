package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lawnchairsociety/idlerpg/internal/engine"
	"github.com/lawnchairsociety/idlerpg/internal/formula"
	"github.com/lawnchairsociety/idlerpg/internal/gametime"
	"github.com/lawnchairsociety/idlerpg/internal/player"
	"github.com/lawnchairsociety/idlerpg/internal/skills"
)

type countingSaver struct {
	calls int
	err   error
}

func (s *countingSaver) Save() error {
	s.calls++
	return s.err
}

func newTestModel(t *testing.T, saver Saver) (Model, *engine.Engine) {
	t.Helper()
	eng := engine.New(engine.Options{
		Roller: formula.FixedRoller{F: 0.99, I: 1},
		Clock:  gametime.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)),
	})
	m := New(eng, saver)
	t.Cleanup(m.stop)
	return m, eng
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return next
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyUp       = tea.KeyMsg{Type: tea.KeyUp}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
)

// earn kills goblins until the player holds at least gold.
func earn(eng *engine.Engine, gold int) {
	for eng.Player().Gold < gold {
		eng.Attack(formula.AttackNormal)
		eng.Drain()
	}
}

func TestNewModelEntersBattle(t *testing.T) {
	m, eng := newTestModel(t, nil)
	if eng.Location() != player.Battle {
		t.Errorf("location = %s, want battle", eng.Location())
	}
	if m.view.Monster == nil || m.view.Monster.Name != "Goblin" {
		t.Errorf("monster = %+v, want Goblin", m.view.Monster)
	}
}

func TestAttackKeys(t *testing.T) {
	m, eng := newTestModel(t, nil)

	m = press(t, m, runes("a"))
	if hp := m.view.Monster.HP; hp != 15 {
		t.Errorf("monster HP after attack = %d, want 15", hp)
	}
	press(t, m, runes("a"))
	if gold := eng.Player().Gold; gold != 15 {
		t.Errorf("gold = %d, want 15", gold)
	}
}

func TestAttackFromOtherTabReturnsToBattle(t *testing.T) {
	m, eng := newTestModel(t, nil)
	m = press(t, m, keyTab)
	if eng.Location() != player.Skills {
		t.Fatalf("location = %s, want skills", eng.Location())
	}
	m = press(t, m, runes("d"))
	if m.tab != tabBattle || eng.Location() != player.Battle {
		t.Errorf("tab = %d, location = %s; want battle", m.tab, eng.Location())
	}
	// A power attack does 15 * 1.5 = 22.
	if hp := m.view.Monster.HP; hp != 8 {
		t.Errorf("monster HP = %d, want 8", hp)
	}
}

func TestTabSwitchNavigates(t *testing.T) {
	tests := []struct {
		keys []tea.KeyMsg
		tab  tab
		loc  player.Location
	}{
		{[]tea.KeyMsg{keyTab}, tabSkills, player.Skills},
		{[]tea.KeyMsg{keyTab, keyTab}, tabShop, player.Shop},
		{[]tea.KeyMsg{keyTab, keyTab, keyTab}, tabInventory, player.Inventory},
		{[]tea.KeyMsg{keyShiftTab}, tabObjectives, player.Raids},
		{[]tea.KeyMsg{keyTab, keyShiftTab}, tabBattle, player.Battle},
	}
	for _, tt := range tests {
		m, eng := newTestModel(t, nil)
		for _, k := range tt.keys {
			m = press(t, m, k)
		}
		if m.tab != tt.tab || eng.Location() != tt.loc {
			t.Errorf("after %d keys: tab = %d, location = %s; want %d, %s", len(tt.keys), m.tab, eng.Location(), tt.tab, tt.loc)
		}
	}
}

func TestBuySkill(t *testing.T) {
	m, eng := newTestModel(t, nil)
	earn(eng, 100)

	m = press(t, m, keyTab)
	m = press(t, m, keyEnter)
	if lvl := eng.SkillLevel(skills.AutoAttack); lvl != 1 {
		t.Errorf("auto-attack level = %d, want 1", lvl)
	}
	if m.failed || !strings.Contains(m.status, "Auto Attack") {
		t.Errorf("status = %q (failed %v)", m.status, m.failed)
	}
}

func TestBuySkillWithoutGold(t *testing.T) {
	m, eng := newTestModel(t, nil)
	m = press(t, m, keyTab)
	m = press(t, m, keyDown)
	m = press(t, m, keyEnter)

	if lvl := eng.SkillLevel(skills.CritChance); lvl != 0 {
		t.Errorf("crit-chance level = %d, want 0", lvl)
	}
	if !m.failed || !strings.Contains(m.View(), "insufficient funds") {
		t.Errorf("status = %q (failed %v), want insufficient funds", m.status, m.failed)
	}
}

func TestBuyAndEquipWeapon(t *testing.T) {
	m, eng := newTestModel(t, nil)
	earn(eng, 50)

	m = press(t, m, keyTab)
	m = press(t, m, keyTab)
	m = press(t, m, keyEnter)
	if inv := eng.Inventory(); len(inv) != 1 || inv[0].Name != "Rusty Dagger" {
		t.Fatalf("inventory = %+v, want a Rusty Dagger", inv)
	}

	m = press(t, m, keyTab)
	m = press(t, m, keyEnter)
	if w := eng.Equipment().Weapon; w == nil || w.Name != "Rusty Dagger" {
		t.Errorf("weapon = %+v, want Rusty Dagger", w)
	}
	if n := len(eng.Inventory()); n != 0 {
		t.Errorf("inventory size = %d, want 0", n)
	}
	if m.failed {
		t.Errorf("unexpected failure: %s", m.status)
	}
}

func TestLockedRaid(t *testing.T) {
	m, eng := newTestModel(t, nil)
	m = press(t, m, keyShiftTab)
	m = press(t, m, keyEnter)

	if !m.failed || m.tab != tabObjectives {
		t.Errorf("tab = %d, status = %q; want a refusal on the objectives tab", m.tab, m.status)
	}
	if mon := eng.Monster(); mon.IsRaidBoss {
		t.Error("locked raid started")
	}
}

func TestCursorClamps(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = press(t, m, keyTab)

	m = press(t, m, keyUp)
	if m.cursor[tabSkills] != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor[tabSkills])
	}
	for i := 0; i < int(skills.Count)+5; i++ {
		m = press(t, m, keyDown)
	}
	if want := int(skills.Count) - 1; m.cursor[tabSkills] != want {
		t.Errorf("cursor = %d, want %d", m.cursor[tabSkills], want)
	}
}

func TestSaveKey(t *testing.T) {
	saver := &countingSaver{}
	m, _ := newTestModel(t, saver)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if saver.calls != 1 || m.failed {
		t.Errorf("calls = %d, status = %q", saver.calls, m.status)
	}

	saver.err = errors.New("disk full")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.failed || m.status != "disk full" {
		t.Errorf("status = %q (failed %v), want disk full", m.status, m.failed)
	}

	m, _ = newTestModel(t, nil)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.failed {
		t.Error("save without a saver should fail")
	}
}

func TestNotificationsShowInStatus(t *testing.T) {
	m, _ := newTestModel(t, nil)
	updated, cmd := m.Update(eventMsg(engine.Event{Kind: engine.KindNotification, Title: "Achievement Unlocked!", Message: "First Blood"}))
	m = updated.(Model)
	if m.status != "Achievement Unlocked! First Blood" {
		t.Errorf("status = %q", m.status)
	}
	if cmd == nil {
		t.Error("event handling should wait for the next event")
	}
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t, nil)
	out := m.View()
	for _, want := range []string{"Idle RPG", "Battle", "Objectives", "Goblin", "HP"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	for i := 1; i < int(tabCount); i++ {
		m = press(t, m, keyTab)
		if out := m.View(); out == "" {
			t.Errorf("tab %s rendered nothing", tabNames[i])
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, nil)
	updated, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if !strings.Contains(updated.View(), "Goodbye") {
		t.Errorf("View() after quit = %q", updated.View())
	}
	closed := make(chan struct{})
	go func() {
		for range m.events {
		}
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Error("event subscription still open after quit")
	}
}

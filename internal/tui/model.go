// Package tui is a terminal client for a local game.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lawnchairsociety/idlerpg/internal/engine"
	"github.com/lawnchairsociety/idlerpg/internal/formula"
	"github.com/lawnchairsociety/idlerpg/internal/items"
	"github.com/lawnchairsociety/idlerpg/internal/objective"
	"github.com/lawnchairsociety/idlerpg/internal/player"
	"github.com/lawnchairsociety/idlerpg/internal/skills"
)

const refreshInterval = 100 * time.Millisecond

type tab int

const (
	tabBattle tab = iota
	tabSkills
	tabShop
	tabInventory
	tabObjectives
	tabCount
)

var tabNames = [tabCount]string{"Battle", "Skills", "Shop", "Inventory", "Objectives"}

// tabLocations is where the player stands while a tab is open.
var tabLocations = [tabCount]player.Location{player.Battle, player.Skills, player.Shop, player.Inventory, player.Raids}

// Saver writes the game to storage.
type Saver interface {
	Save() error
}

type refreshMsg time.Time

type eventMsg engine.Event

// Model is the bubbletea model. It reads the engine through View and sends
// every action through the engine's commands.
type Model struct {
	eng    *engine.Engine
	saver  Saver
	events <-chan engine.Event
	stop   func()

	view     engine.View
	tab      tab
	cursor   [tabCount]int
	status   string
	failed   bool
	keys     keyMap
	help     help.Model
	hpBar    progress.Model
	foeBar   progress.Model
	expBar   progress.Model
	width    int
	quitting bool
}

// New creates a model for eng. saver may be nil.
func New(eng *engine.Engine, saver Saver) Model {
	events, stop := eng.Bus().Subscribe(64)
	m := Model{
		eng:    eng,
		saver:  saver,
		events: events,
		stop:   stop,
		keys:   defaultKeys(),
		help:   help.New(),
		hpBar:  progress.New(progress.WithGradient("#D70000", "#5FD75F"), progress.WithoutPercentage()),
		foeBar: progress.New(progress.WithSolidFill("#D75F00"), progress.WithoutPercentage()),
		expBar: progress.New(progress.WithGradient("#5F5FD7", "#AF87FF"), progress.WithoutPercentage()),
		width:  80,
	}
	m.resize(m.width)
	m.view = eng.View()
	if err := eng.Navigate(tabLocations[m.tab]); err == nil {
		m.view = eng.View()
	}
	return m
}

// Run starts a full-screen program and blocks until the player quits.
func Run(eng *engine.Engine, saver Saver) error {
	p := tea.NewProgram(New(eng, saver), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(refresh(), waitForEvent(m.events))
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func waitForEvent(events <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil

	case refreshMsg:
		m.view = m.eng.View()
		return m, refresh()

	case eventMsg:
		if msg.Kind == engine.KindNotification {
			m.setStatus(fmt.Sprintf("%s %s", msg.Title, msg.Message), false)
		}
		return m, waitForEvent(m.events)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab((m.tab + 1) % tabCount)
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab((m.tab + tabCount - 1) % tabCount)
	case key.Matches(msg, m.keys.Up):
		if m.cursor[m.tab] > 0 {
			m.cursor[m.tab]--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor[m.tab] < m.listLen()-1 {
			m.cursor[m.tab]++
		}
	case key.Matches(msg, m.keys.Attack):
		m.attack(formula.AttackNormal)
	case key.Matches(msg, m.keys.Quick):
		m.attack(formula.AttackQuick)
	case key.Matches(msg, m.keys.Power):
		m.attack(formula.AttackPower)
	case key.Matches(msg, m.keys.Heal):
		m.report(m.eng.UseConsumable(items.HealPotion), "Drank a heal potion.")
	case key.Matches(msg, m.keys.Poison):
		m.report(m.eng.UseConsumable(items.PoisonPotion), "Threw a poison potion.")
	case key.Matches(msg, m.keys.Prestige):
		m.report(m.eng.Prestige(), "Prestiged!")
	case key.Matches(msg, m.keys.Tutorial):
		t := m.eng.TutorialNext()
		m.setStatus(fmt.Sprintf("Tutorial step %d/%d", t.CurrentStep+1, player.TutorialSteps), false)
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Select):
		m.selectCurrent()
	}
	m.view = m.eng.View()
	m.clampCursor()
	return m, nil
}

func (m *Model) resize(width int) {
	m.width = width
	bar := max(10, min(40, width/2-10))
	m.hpBar.Width = bar
	m.foeBar.Width = bar
	m.expBar.Width = bar
	m.help.Width = width
}

func (m *Model) switchTab(t tab) {
	m.tab = t
	if err := m.eng.Navigate(tabLocations[t]); err != nil {
		m.setStatus(err.Error(), true)
	}
}

func (m *Model) attack(t formula.AttackType) {
	if m.tab != tabBattle {
		m.switchTab(tabBattle)
	}
	m.eng.Attack(t)
}

func (m *Model) save() {
	if m.saver == nil {
		m.setStatus("Saving is disabled.", true)
		return
	}
	m.report(m.saver.Save(), "Game saved.")
}

func (m *Model) report(err error, ok string) {
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(ok, false)
}

func (m *Model) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

// selectCurrent acts on the highlighted row of the open tab.
func (m *Model) selectCurrent() {
	i := m.cursor[m.tab]
	switch m.tab {
	case tabBattle:
		m.eng.Attack(formula.AttackNormal)
	case tabSkills:
		if i < len(m.view.Skills) {
			sv := m.view.Skills[i]
			m.report(m.eng.PurchaseSkill(sv.ID), fmt.Sprintf("Bought %s.", sv.Name))
		}
	case tabShop:
		stock := m.eng.Catalog().Shop.All()
		if i < len(stock) {
			item, err := m.eng.PurchaseItem(stock[i].Key)
			m.report(err, fmt.Sprintf("Bought %s.", item.Name))
		}
	case tabInventory:
		if i < len(m.view.Inventory) {
			item := m.view.Inventory[i]
			m.report(m.eng.EquipFromInventory(item.ID), fmt.Sprintf("Equipped %s.", item.Name))
		}
	case tabObjectives:
		raids := allRaids(m.view.Raids)
		if i < len(raids) {
			if err := m.eng.StartRaid(raids[i].ID); err != nil {
				m.setStatus(err.Error(), true)
				return
			}
			m.tab = tabBattle
			m.setStatus(fmt.Sprintf("Fighting %s!", raids[i].Boss.Name), false)
		}
	}
}

func (m *Model) listLen() int {
	switch m.tab {
	case tabSkills:
		return len(m.view.Skills)
	case tabShop:
		return len(m.eng.Catalog().Shop.All())
	case tabInventory:
		return len(m.view.Inventory)
	case tabObjectives:
		return len(allRaids(m.view.Raids))
	}
	return 0
}

func (m *Model) clampCursor() {
	if n := m.listLen(); m.cursor[m.tab] >= n {
		m.cursor[m.tab] = max(0, n-1)
	}
}

func allRaids(r engine.RaidTiers) []objective.Raid {
	all := make([]objective.Raid, 0, len(r.Daily)+len(r.Weekly)+len(r.Monthly))
	all = append(all, r.Daily...)
	all = append(all, r.Weekly...)
	return append(all, r.Monthly...)
}

func (m Model) View() string {
	if m.quitting {
		return "Progress is saved on exit. Goodbye!\n"
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n")

	var body string
	switch m.tab {
	case tabBattle:
		body = m.battleView()
	case tabSkills:
		body = m.skillsView()
	case tabShop:
		body = m.shopView()
	case tabInventory:
		body = m.inventoryView()
	case tabObjectives:
		body = m.objectivesView()
	}
	b.WriteString(panelStyle.Width(max(20, m.width-4)).Render(body))
	b.WriteString("\n")

	if m.status != "" {
		style := statusStyle
		if m.failed {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) header() string {
	p := m.view.Player
	title := titleStyle.Render("Idle RPG")
	stats := statStyle.Render(fmt.Sprintf("Lv %d  Gold %d  Gems %d  Prestige %d  STR %d  DEF %d",
		p.Level, p.Gold, p.Gems, p.PrestigeLevel, m.view.EffectiveStrength, m.view.EffectiveDefense))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", stats)
}

func (m Model) tabs() string {
	rendered := make([]string, 0, tabCount)
	for i, name := range tabNames {
		if tab(i) == m.tab {
			rendered = append(rendered, activeTabStyle.Render(name))
		} else {
			rendered = append(rendered, tabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return min(1, max(0, float64(n)/float64(d)))
}

func (m Model) battleView() string {
	v := m.view
	p := v.Player
	var b strings.Builder

	if mon := v.Monster; mon != nil {
		name := mon.Name
		if mon.IsRaidBoss {
			name += " (raid boss)"
		}
		fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(name), dimStyle.Render(fmt.Sprintf("hits for %d", mon.Damage)))
		fmt.Fprintf(&b, "%s %d/%d\n\n", m.foeBar.ViewAs(ratio(mon.HP, mon.MaxHP)), mon.HP, mon.MaxHP)
	} else {
		b.WriteString(dimStyle.Render("No monster in sight.") + "\n\n")
	}

	fmt.Fprintf(&b, "HP  %s %d/%d\n", m.hpBar.ViewAs(ratio(p.HP, p.MaxHP)), p.HP, p.MaxHP)
	fmt.Fprintf(&b, "EXP %s %d/%d\n", m.expBar.ViewAs(ratio(p.Exp, p.ExpToNext)), p.Exp, p.ExpToNext)
	fmt.Fprintf(&b, "Heal potions %d  Poison %d  Crit %.0f%%",
		v.Consumables.HealPotion, v.Consumables.PoisonPotion, p.CritChance*100)
	if p.AutoAttack {
		b.WriteString("  Auto-attack on")
	}
	b.WriteString("\n\n")

	for _, line := range v.CombatLog {
		b.WriteString(logStyle.Render(line) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) row(i int, text string) string {
	if i == m.cursor[m.tab] {
		return selectedStyle.Render("> " + text)
	}
	return "  " + text
}

func (m Model) skillsView() string {
	lines := make([]string, 0, len(m.view.Skills))
	for i, sv := range m.view.Skills {
		price := "MAX"
		if !sv.Maxed {
			currency := "gold"
			if sv.Currency == skills.Gems {
				currency = "gems"
			}
			price = fmt.Sprintf("%d %s", sv.NextCost, currency)
		}
		lines = append(lines, m.row(i, fmt.Sprintf("%-20s %2d/%-2d  %s", sv.Name, sv.Level, sv.MaxLevel, price)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) shopView() string {
	stock := m.eng.Catalog().Shop.All()
	lines := make([]string, 0, len(stock))
	for i, item := range stock {
		lines = append(lines, m.row(i, fmt.Sprintf("%-20s %-10s %6d gold  %s", item.Name, item.Type, item.Cost, itemStats(item))))
	}
	return strings.Join(lines, "\n")
}

func itemStats(item items.Item) string {
	var parts []string
	if item.Damage > 0 {
		parts = append(parts, fmt.Sprintf("+%d dmg", item.Damage))
	}
	if item.Defense > 0 {
		parts = append(parts, fmt.Sprintf("+%d def", item.Defense))
	}
	if item.Strength > 0 {
		parts = append(parts, fmt.Sprintf("+%d str", item.Strength))
	}
	if item.GoldBonus > 0 {
		parts = append(parts, fmt.Sprintf("+%.0f%% gold", item.GoldBonus*100))
	}
	if item.CritChance > 0 {
		parts = append(parts, fmt.Sprintf("+%.0f%% crit", item.CritChance*100))
	}
	return strings.Join(parts, " ")
}

func (m Model) inventoryView() string {
	eq := m.view.Equipment
	var b strings.Builder
	b.WriteString(titleStyle.Render("Equipped") + "\n")
	for _, slot := range []struct {
		name string
		item *items.Item
	}{{"Weapon", eq.Weapon}, {"Armor", eq.Armor}, {"Accessory", eq.Accessory}} {
		name := dimStyle.Render("(none)")
		if slot.item != nil {
			name = fmt.Sprintf("%s %s", slot.item.Name, dimStyle.Render(itemStats(*slot.item)))
		}
		fmt.Fprintf(&b, "  %-10s %s\n", slot.name, name)
	}

	b.WriteString("\n" + titleStyle.Render("Backpack") + "\n")
	if len(m.view.Inventory) == 0 {
		b.WriteString(dimStyle.Render("  (empty)"))
	}
	for i, item := range m.view.Inventory {
		b.WriteString(m.row(i, fmt.Sprintf("%-20s %s", item.Name, itemStats(item))) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) objectivesView() string {
	v := m.view
	var b strings.Builder

	b.WriteString(titleStyle.Render("Raids") + "\n")
	for i, r := range allRaids(v.Raids) {
		state := dimStyle.Render("locked")
		switch {
		case r.Completed:
			state = dimStyle.Render("done")
		case r.Available:
			state = statusStyle.Render("ready")
		}
		b.WriteString(m.row(i, fmt.Sprintf("%-8s %-22s Lv %-3d %s", r.Tier, r.Name, r.Requirements.MinLevel, state)) + "\n")
	}

	b.WriteString("\n" + titleStyle.Render("Daily quests") + "\n")
	for _, q := range v.Quests {
		mark := " "
		if q.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "  [%s] %-22s %d/%d  +%d gold\n", mark, q.Name, min(q.Progress, q.Target), q.Target, q.Reward)
	}

	unlocked := 0
	for _, a := range v.Achievements {
		if a.Unlocked {
			unlocked++
		}
	}
	fmt.Fprintf(&b, "\nAchievements %d/%d", unlocked, len(v.Achievements))
	if len(v.ResetsIn) > 0 {
		fmt.Fprintf(&b, "  Quests reset in %s", v.ResetsIn[objective.ResetQuests])
	}
	if v.CanPrestige {
		b.WriteString("\n" + statusStyle.Render("Prestige available! Press P."))
	}
	return b.String()
}

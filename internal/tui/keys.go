package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab  key.Binding
	PrevTab  key.Binding
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Attack   key.Binding
	Quick    key.Binding
	Power    key.Binding
	Heal     key.Binding
	Poison   key.Binding
	Prestige key.Binding
	Tutorial key.Binding
	Save     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		NextTab:  key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev tab")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "buy/equip/raid")),
		Attack:   key.NewBinding(key.WithKeys("a", " "), key.WithHelp("a", "attack")),
		Quick:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "quick")),
		Power:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "power")),
		Heal:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "heal potion")),
		Poison:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "poison")),
		Prestige: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "prestige")),
		Tutorial: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tutorial")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Attack, k.Heal, k.Select, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Up, k.Down, k.Select},
		{k.Attack, k.Quick, k.Power, k.Heal, k.Poison},
		{k.Prestige, k.Tutorial, k.Save, k.Help, k.Quit},
	}
}

package tui

import "github.com/charmbracelet/bubbles/key"

// Control keys use ctrl chords so that every plain key stays available as a target.
type keyMap struct {
	Quit   key.Binding
	Toggle key.Binding
	Skip   key.Binding
	Add    key.Binding
	Record key.Binding
	Remove key.Binding
	Clear  key.Binding
	Reset  key.Binding
	Prev   key.Binding
	Next   key.Binding
	Slower key.Binding
	Faster key.Binding
	Delay  key.Binding
	Help   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Toggle: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "start/stop")),
		Skip:   key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "skip")),
		Add:    key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "add keys")),
		Record: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "record key")),
		Remove: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove selected")),
		Clear:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear keys")),
		Reset:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "reset stats")),
		Prev:   key.NewBinding(key.WithKeys("ctrl+p", "ctrl+up"), key.WithHelp("ctrl+p", "prev key")),
		Next:   key.NewBinding(key.WithKeys("ctrl+n", "ctrl+down"), key.WithHelp("ctrl+n", "next key")),
		Slower: key.NewBinding(key.WithKeys("ctrl+right"), key.WithHelp("ctrl+→", "delay +50ms")),
		Faster: key.NewBinding(key.WithKeys("ctrl+left"), key.WithHelp("ctrl+←", "delay -50ms")),
		Delay:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "type delay")),
		Help:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "more")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Skip, k.Add, k.Record, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Skip, k.Reset},
		{k.Add, k.Record, k.Remove, k.Clear},
		{k.Prev, k.Next},
		{k.Faster, k.Slower, k.Delay},
		{k.Help, k.Quit},
	}
}

// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection or asks about the selected item.
	Select key.Binding

	// Prev and Next move the step player.
	Prev key.Binding
	Next key.Binding

	// TogglePlay starts or pauses autoplay.
	TogglePlay key.Binding

	// Refresh regenerates the current explanation.
	Refresh key.Binding

	// Dataset toggles the dataset details overlay.
	Dataset key.Binding

	// PrevItem and NextItem move the selection over visual primitives.
	PrevItem key.Binding
	NextItem key.Binding

	// NextTerm cycles through the step's key terms.
	NextTerm key.Binding

	// Chat opens the tutor chat.
	Chat key.Binding

	// Search returns to the topic browser.
	Search key.Binding

	// Export writes the chat transcript to a file.
	Export key.Binding

	// Copy copies the chat transcript to the clipboard.
	Copy key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next"),
		),
		TogglePlay: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Dataset: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dataset"),
		),
		PrevItem: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev item"),
		),
		NextItem: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next item"),
		),
		NextTerm: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "key term"),
		),
		Chat: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "chat"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "topics"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// PlayerHelp returns keybindings for the player view.
func (k *KeyMap) PlayerHelp() []key.Binding {
	return []key.Binding{k.Prev, k.TogglePlay, k.Next, k.NextTerm, k.Select, k.Chat}
}

// ChatHelp returns keybindings for the chat view.
func (k *KeyMap) ChatHelp() []key.Binding {
	return []key.Binding{k.Select, k.Export, k.Copy, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Search},
		{k.Prev, k.TogglePlay, k.Next, k.Refresh, k.Dataset},
		{k.NextTerm, k.PrevItem, k.NextItem, k.Chat},
		{k.Export, k.Copy, k.Back},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}

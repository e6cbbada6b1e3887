package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the reader keybindings.
type KeyMap struct {
	// NextPage turns to the next page, or the next chapter from the
	// last page.
	NextPage key.Binding

	// PrevPage turns back one page.
	PrevPage key.Binding

	// Contents toggles the table of contents overlay.
	Contents key.Binding

	// Settings toggles the reading settings overlay.
	Settings key.Binding

	// Bookmark toggles the bookmark at the current position.
	Bookmark key.Binding

	// Fullscreen hides the reader chrome.
	Fullscreen key.Binding

	// FontUp and FontDown adjust the font size in settings.
	FontUp   key.Binding
	FontDown key.Binding

	// Up, Down and Select navigate overlay lists.
	Up     key.Binding
	Down   key.Binding
	Select key.Binding

	// Back closes any open overlay.
	Back key.Binding

	// Quit exits the reader.
	Quit key.Binding
}

// DefaultKeyMap returns the default reader keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		NextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "prev page"),
		),
		Contents: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "contents"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		Bookmark: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bookmark"),
		),
		Fullscreen: key.NewBinding(
			key.WithKeys("ctrl+f", "f"),
			key.WithHelp("ctrl+f", "fullscreen"),
		),
		FontUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "larger font"),
		),
		FontDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "smaller font"),
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
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

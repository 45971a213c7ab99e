package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the TUI key bindings
type KeyMap struct {
	Analyze   key.Binding
	Submit    key.Binding
	NextPanel key.Binding
	PrevPanel key.Binding
	Panel1    key.Binding
	Panel2    key.Binding
	Panel3    key.Binding
	Focus     key.Binding
	Up        key.Binding
	Down      key.Binding
	Highlight key.Binding
	Clear     key.Binding
	CopyError key.Binding
	CopyTutor key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Analyze: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "解析"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "エラーを解析"),
		),
		NextPanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "次のタブ"),
		),
		PrevPanel: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "前のタブ"),
		),
		Panel1: key.NewBinding(
			key.WithKeys("alt+1"),
			key.WithHelp("alt+1", "解析"),
		),
		Panel2: key.NewBinding(
			key.WithKeys("alt+2"),
			key.WithHelp("alt+2", "ビジュアル"),
		),
		Panel3: key.NewBinding(
			key.WithKeys("alt+3"),
			key.WithHelp("alt+3", "エラー"),
		),
		Focus: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "フォーカス切替"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "前のステップ"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "次のステップ"),
		),
		Highlight: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "行を強調"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "強調を解除"),
		),
		CopyError: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "エラーをコピー"),
		),
		CopyTutor: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "質問文をコピー"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "ヘルプ"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "終了"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Analyze, k.Submit, k.NextPanel, k.Focus, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Analyze, k.Submit, k.CopyError, k.CopyTutor},
		{k.NextPanel, k.PrevPanel, k.Panel1, k.Panel2, k.Panel3},
		{k.Focus, k.Up, k.Down, k.Highlight, k.Clear},
		{k.Help, k.Quit},
	}
}

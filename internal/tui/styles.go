package tui

import "github.com/charmbracelet/lipgloss"

// Theme colours the panels around the wireframe.
type Theme struct {
	Name   string
	Title  lipgloss.Color
	Wire   lipgloss.Color
	Hover  lipgloss.Color
	Muted  lipgloss.Color
	Active lipgloss.Color
	Paused lipgloss.Color
}

var Themes = []Theme{
	{"slate", "86", "252", "213", "242", "82", "220"},
	{"phosphor", "46", "40", "226", "22", "120", "214"},
	{"paper", "33", "236", "160", "245", "28", "130"},
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// themeIndex returns the index of the named theme, 0 when unknown.
func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

type styles struct {
	title, wire, hover, muted, active, paused lipgloss.Style
}

func newStyles(t Theme) styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return styles{
		title:  fg(t.Title).Bold(true),
		wire:   fg(t.Wire),
		hover:  fg(t.Hover).Bold(true),
		muted:  fg(t.Muted),
		active: fg(t.Active),
		paused: fg(t.Paused),
	}
}

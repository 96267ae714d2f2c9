package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles of the chat screen.
type Styles struct {
	Header    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Title     lipgloss.Style
	Price     lipgloss.Style
	Savings   lipgloss.Style
	Muted     lipgloss.Style
	Link      lipgloss.Style
	Error     lipgloss.Style
	Input     lipgloss.Style
}

// DefaultStyles returns the colored styles.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Title:     lipgloss.NewStyle().Bold(true),
		Price:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Savings:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Link:      lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("75")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Input:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")),
	}
}

// useASCII drops colors from every lipgloss style in the process.
func useASCII() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

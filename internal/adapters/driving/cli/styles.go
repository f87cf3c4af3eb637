package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// styles holds the lipgloss styles used for human output.
type styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// plainStyles renders text unchanged.
func plainStyles() styles {
	plain := lipgloss.NewStyle()
	return styles{
		Title:   plain,
		Header:  plain,
		Muted:   plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
	}
}

// colourStyles is the terminal palette.
func colourStyles() styles {
	return styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
	}
}

// stylesFor returns colour styles when w is a terminal, plain ones otherwise.
func stylesFor(w io.Writer) styles {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return colourStyles()
	}
	return plainStyles()
}

// outcome picks the style for a table outcome.
func (s styles) outcome(failed bool, stalled bool) lipgloss.Style {
	switch {
	case failed:
		return s.Error
	case stalled:
		return s.Warning
	default:
		return s.Success
	}
}

// padRight pads to width display cells.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + spaces(width-w)
	}
	return s
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

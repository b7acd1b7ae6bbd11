package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const panelWidth = 44

type styles struct {
	canvas  lipgloss.Style
	panel   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	active  lipgloss.Style
	graph   lipgloss.Style
	help    lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	loading lipgloss.Style
	err     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Foreground(t.Points),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(0, 2).
			Width(panelWidth),
		header:  lipgloss.NewStyle().Foreground(t.Title).Bold(true),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		active:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		graph:   lipgloss.NewStyle().Foreground(t.Points),
		help:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		running: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		paused:  lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		loading: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		err:     lipgloss.NewStyle().Foreground(t.Error),
	}
}

// controlBar draws v's position between lo and hi on a log scale.
func controlBar(v, lo, hi float64, width int) string {
	ratio := 0.0
	if v > 0 && hi > lo && lo > 0 {
		ratio = math.Log(v/lo) / math.Log(hi/lo)
	}
	ratio = math.Max(0, math.Min(1, ratio))
	filled := int(math.Round(ratio * float64(width)))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	banner lipgloss.Style
	ok     lipgloss.Style
	ko     lipgloss.Style
	skip   lipgloss.Style
}

func newStyles(out io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(out)
	if !color {
		plain := r.NewStyle()
		return styles{banner: plain, ok: plain, ko: plain, skip: plain}
	}
	return styles{
		banner: r.NewStyle().Foreground(lipgloss.Color("11")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("10")),
		ko:     r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		skip:   r.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

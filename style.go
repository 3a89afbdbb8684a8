package main

import (
	"skincheck_server/core/domain"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleBanner  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleVerdict = map[domain.Verdict]lipgloss.Style{
		domain.VerdictGood:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		domain.VerdictModerate: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		domain.VerdictBad:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		domain.VerdictUnknown:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func renderVerdict(v domain.Verdict) string {
	if s, ok := styleVerdict[v]; ok {
		return s.Render("[" + string(v) + "]")
	}
	return "[" + string(v) + "]"
}

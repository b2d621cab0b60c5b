package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	echoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5004F"))
	itemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#769FB6"))
)

// Styled renders pane lines for a terminal.
func Styled(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "==="):
			l = headingStyle.Render(l)
		case strings.HasPrefix(l, "> Error:"):
			l = errorStyle.Render(l)
		case strings.HasPrefix(l, "  - "):
			l = itemStyle.Render(l)
		case strings.HasPrefix(l, "> "):
			l = echoStyle.Render(l)
		}
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

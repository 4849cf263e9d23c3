package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/cyberquestjr/cyberquest/internal/ui/theme"
)

// ProgressBar shows how far through a quiz the player is.
type ProgressBar struct {
	Label string
	Done  int
	Total int
	Width int
}

// View renders "label ███░░░ 2/6".
func (p ProgressBar) View() string {
	label := ""
	if p.Label != "" {
		label = theme.Body.Render(p.Label) + "  "
	}
	count := fmt.Sprintf("  %d/%d", p.Done, p.Total)
	barWidth := max(p.Width-lipgloss.Width(label)-len(count), 4)

	filled := 0
	if p.Total > 0 {
		filled = min(max(barWidth*p.Done/p.Total, 0), barWidth)
	}
	bar := lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))
	return label + bar + theme.Dim.Render(count)
}

package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/cyberquestjr/cyberquest/internal/ui/theme"
)

const bannerArt = `
  ██████╗██╗   ██╗██████╗ ███████╗██████╗
 ██╔════╝╚██╗ ██╔╝██╔══██╗██╔════╝██╔══██╗
 ██║      ╚████╔╝ ██████╔╝█████╗  ██████╔╝
 ██║       ╚██╔╝  ██╔══██╗██╔══╝  ██╔══██╗
 ╚██████╗   ██║   ██████╔╝███████╗██║  ██║
  ╚═════╝   ╚═╝   ╚═════╝ ╚══════╝╚═╝  ╚═╝
            Q  U  E  S  T    J R`

const bannerCompact = "C Y B E R Q U E S T  J R"

// RenderBanner falls back to a one-line banner below 48 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if width < 48 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

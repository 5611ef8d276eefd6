package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/markassist/markassist/internal/ui/theme"
)

const bannerArt = `
 ┌┬┐┌─┐┬─┐┬┌─  ┌─┐┌─┐┌─┐┬┌─┐┌┬┐
 │││├─┤├┬┘├┴┐  ├─┤└─┐└─┐│└─┐ │
 ┴ ┴┴ ┴┴└─┴ ┴  ┴ ┴└─┘└─┘┴└─┘ ┴ `

const bannerCompact = "m a r k a s s i s t"

// RenderBanner returns the banner, or a one-line version on narrow
// terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

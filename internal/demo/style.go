package demo

import (
	"fmt"

	"github.com/agiangrant/pullrefresh/refresh"
	"github.com/charmbracelet/lipgloss"
)

const (
	containerBGColor = "#EADDFF" // primary container
	itemTextFGColor  = "#c0c0c0"
	statusFGColor    = "245"
	hintFGColor      = "#f5c542"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(statusFGColor))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(hintFGColor))
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(itemTextFGColor)).PaddingLeft(2)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(statusFGColor)).Padding(0, 1)
)

// Spinner frames, a quarter turn apart
var glyphs = []string{"◐", "◓", "◑", "◒"}

// indicatorStyle renders the indicator in its variant: contained draws a
// filled badge, uncontained only colors the glyph.
func indicatorStyle(cfg refresh.StyleConfig) lipgloss.Style {
	fg := lipgloss.Color(rgbHex(cfg.Color))
	if cfg.Variant == refresh.StyleContained {
		return lipgloss.NewStyle().
			Foreground(fg).
			Background(lipgloss.Color(containerBGColor)).
			Padding(0, 1)
	}
	return lipgloss.NewStyle().Foreground(fg)
}

// glyph picks the spinner frame for a visual. A small indicator draws as a dot.
func glyph(v refresh.Visual) string {
	if v.Spinning {
		return glyphs[int(v.SpinPhase*float64(len(glyphs)))%len(glyphs)]
	}
	if v.Scale < 0.5 {
		return "·"
	}
	return glyphs[int(v.Rotation/90)%len(glyphs)]
}

// rgbHex drops the alpha channel, which terminals cannot show.
func rgbHex(c refresh.Color) string {
	return fmt.Sprintf("#%06X", uint32(c)>>8)
}

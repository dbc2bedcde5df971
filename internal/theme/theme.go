package theme

import (
	"github.com/charmbracelet/lipgloss"

	"cems-client/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// UnreadStyle marks notifications the user has not seen yet.
var UnreadStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite)

// ReadStyle dims notifications the user has already seen.
var ReadStyle = lipgloss.NewStyle().Foreground(ColorGray)

// ErrorStyle is used for inline error messages.
var ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)

// DegradedStyle is used for the connection-trouble banner.
var DegradedStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorOrange)

// CategoryStyle returns a color-coded style for a notification category.
func CategoryStyle(c model.Category) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch c {
	case model.CategoryAnnouncement:
		return base.Foreground(ColorMagenta)
	case model.CategoryActivity:
		return base.Foreground(ColorBlue)
	case model.CategorySuccess:
		return base.Foreground(ColorGreen)
	case model.CategoryWarning:
		return base.Foreground(ColorYellow)
	case model.CategoryInfo:
		return base.Foreground(ColorBlue)
	case model.CategorySystem:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// CategoryIcon returns the glyph shown next to a notification.
func CategoryIcon(c model.Category) string {
	switch c {
	case model.CategoryAnnouncement:
		return "📣"
	case model.CategoryActivity:
		return "🎯"
	case model.CategorySuccess:
		return "✅"
	case model.CategoryWarning:
		return "⚠"
	case model.CategoryInfo:
		return "ℹ"
	case model.CategorySystem:
		return "⚙"
	default:
		return "•"
	}
}

// ActivityStatusStyle returns a color-coded style for an activity
// lifecycle status.
func ActivityStatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.ActivityStatusOpen:
		return base.Foreground(ColorGreen)
	case model.ActivityStatusFull:
		return base.Foreground(ColorOrange)
	case model.ActivityStatusFinished:
		return base.Foreground(ColorGray)
	case model.ActivityStatusCancelled:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// ReportStatusStyle returns a color-coded style for a report's
// generation status.
func ReportStatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.ReportStatusReady:
		return base.Foreground(ColorGreen)
	case model.ReportStatusGenerating, model.ReportStatusPending:
		return base.Foreground(ColorYellow)
	case model.ReportStatusFailed:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

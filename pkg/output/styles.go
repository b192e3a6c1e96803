package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color definitions using AdaptiveColor for automatic light/dark mode switching
var (
	SuccessColor = lipgloss.AdaptiveColor{
		Light: "#28A745", // Green
		Dark:  "#4CDD76",
	}

	ErrorColor = lipgloss.AdaptiveColor{
		Light: "#DC3545", // Red
		Dark:  "#FF6B7D",
	}

	WarningColor = lipgloss.AdaptiveColor{
		Light: "#FFC107", // Amber
		Dark:  "#FFD54F",
	}

	InfoColor = lipgloss.AdaptiveColor{
		Light: "#17A2B8", // Cyan
		Dark:  "#4DD0E1",
	}

	MutedColor = lipgloss.AdaptiveColor{
		Light: "#6C757D", // Medium gray
		Dark:  "#ADB5BD",
	}

	LinkColor = lipgloss.AdaptiveColor{
		Light: "#0EA5E9", // Sky blue
		Dark:  "#38BDF8",
	}
)

// Styles groups the styles of one Reporter. They are bound to the
// reporter's own lipgloss renderer so colour detection follows its writer.
type Styles struct {
	Info    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Path    lipgloss.Style
}

// NewStyles builds the style set for a renderer.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Info:    r.NewStyle().Foreground(InfoColor),
		Success: r.NewStyle().Foreground(SuccessColor).Bold(true),
		Warning: r.NewStyle().Foreground(WarningColor),
		Error:   r.NewStyle().Foreground(ErrorColor).Bold(true),
		Muted:   r.NewStyle().Foreground(MutedColor),
		Path:    r.NewStyle().Foreground(LinkColor),
	}
}

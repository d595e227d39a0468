package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/qrgen/internal/urls"
	"github.com/muurk/qrgen/internal/version"
)

// AppName is shown in the header
const AppName = "QRGEN"

// Fallback dimensions before the first tea.WindowSizeMsg arrives
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor   = lipgloss.Color("#FFFFFF") // White
	SubtleColor = lipgloss.Color("#626262") // Gray
	BorderColor = lipgloss.Color("#7D56F4") // Purple (same as primary)
)

var (
	// Active mode tab
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Bold(true).
			Padding(0, 2)

	// Inactive mode tab
	TabStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(0, 2)

	// Field label (unfocused)
	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(12)

	// Field label (focused)
	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true).
				Width(12)

	// Encryption choice (selected)
	SelectedChoiceStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	// Encryption choice (unselected)
	ChoiceStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// Frame around the live preview
	PreviewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Italic(true).
				Padding(1, 2)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)
)

// BuildHeaderContent creates header content with app name and repository
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " " + version.Version)

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(strings.TrimPrefix(urls.Repository, "https://"))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps a screen's content with the application
// header, a context-sensitive footer and an outer border filling the terminal.
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	if terminalWidth <= 0 {
		terminalWidth = defaultWidth
	}
	if terminalHeight <= 0 {
		terminalHeight = defaultHeight
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent()),
		contentStyle.Render(content),
		footerStyle.Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(footerText)),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}

package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field is an ordered key/value line in a header or result box.
type Field struct {
	Key   string
	Value string
}

// Printer writes styled components to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected terminal width.
func (p *Printer) SetWidth(width int) *Printer {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	p.width = width
	return p
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params []Field) {
	p.Println(RenderHeader(title, command, params, p.width))
}

// PrintSymbol prints a terminal-rendered QR symbol in a frame. An empty
// symbol prints a muted placeholder instead.
func (p *Printer) PrintSymbol(terminal string) {
	p.Println(RenderSymbol(terminal))
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details []Field) {
	p.Println(RenderSuccessBox(title, details, p.width))
}

// PrintWarning prints a warning box
func (p *Printer) PrintWarning(title string, details []Field) {
	p.Println(RenderWarningBox(title, details, p.width))
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(RenderErrorBox(title, err, troubleshooting, p.width))
}

// RenderHeader renders a command header box
func RenderHeader(title, command string, params []Field, width int) string {
	titleLine := HeaderTitleStyle.Render(strings.ToUpper(title))
	commandLine := HeaderCommandStyle.Render(command)
	sections := []string{titleLine, commandLine}

	if len(params) > 0 {
		dividerWidth := width - 6
		if dividerWidth < 10 {
			dividerWidth = 10
		}
		divider := lipgloss.NewStyle().Foreground(PrimaryColor).Render(strings.Repeat("─", dividerWidth))
		sections = append(sections, divider)

		for _, f := range params {
			sections = append(sections, HeaderParamKeyStyle.Render(f.Key+":")+" "+HeaderParamValueStyle.Render(f.Value))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return HeaderBorderStyle(width).Render(content)
}

// RenderSymbol frames a terminal QR rendering
func RenderSymbol(terminal string) string {
	if terminal == "" {
		return lipgloss.NewStyle().Foreground(MutedColor).Italic(true).
			Render("  (nothing to encode)")
	}
	return SymbolStyle().Render(strings.TrimRight(terminal, "\n"))
}

// RenderSuccessBox renders a success result box
func RenderSuccessBox(title string, details []Field, width int) string {
	lines := []string{SuccessTitleStyle.Render(SuccessMarker + "  " + title)}
	lines = append(lines, renderDetails(details)...)
	return SuccessBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderWarningBox renders a warning box
func RenderWarningBox(title string, details []Field, width int) string {
	lines := []string{WarningTitleStyle.Render(WarningMarker + "  " + title)}
	lines = append(lines, renderDetails(details)...)
	return WarningBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderErrorBox renders an error result box with troubleshooting
func RenderErrorBox(title string, err error, troubleshooting []string, width int) string {
	lines := []string{ErrorTitleStyle.Render(FailureMarker + "  FAILED  ─  " + title)}

	if err != nil {
		lines = append(lines, "", ErrorMessageStyle.Render("Error: "+err.Error()))
	}

	if len(troubleshooting) > 0 {
		lines = append(lines, "", TroubleshootingTitleStyle.Render("Troubleshooting:"))
		for _, tip := range troubleshooting {
			lines = append(lines, TroubleshootingItemStyle.Render("  • "+tip))
		}
	}

	return ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))
}

func renderDetails(details []Field) []string {
	if len(details) == 0 {
		return nil
	}
	lines := []string{""}
	for _, f := range details {
		lines = append(lines, ResultKeyStyle.Render(f.Key+":")+" "+ResultValueStyle.Render(f.Value))
	}
	return lines
}

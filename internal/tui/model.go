package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/qrgen/internal/export"
	"github.com/muurk/qrgen/internal/form"
	"github.com/muurk/qrgen/internal/payload"
	"github.com/muurk/qrgen/internal/render"
)

// field identifies an input of the form
type field int

const (
	fieldText field = iota
	fieldURL
	fieldSSID
	fieldPassword
	fieldEncryption
)

// Number of textinput-backed fields (all but encryption)
const numInputs = int(fieldEncryption)

// fieldsFor returns the visible fields of a mode in tab order
func fieldsFor(mode payload.Mode) []field {
	switch mode {
	case payload.ModeURL:
		return []field{fieldURL}
	case payload.ModeWiFi:
		return []field{fieldSSID, fieldPassword, fieldEncryption}
	default:
		return []field{fieldText}
	}
}

var fieldLabels = map[field]string{
	fieldText:       "Text",
	fieldURL:        "URL",
	fieldSSID:       "SSID",
	fieldPassword:   "Password",
	fieldEncryption: "Encryption",
}

// Messages
type exportDoneMsg struct {
	format    export.Format
	delivered bool
	location  string // Where the file was written, if known
	err       error
}

type copyDoneMsg struct {
	err error
}

// formKeyMap defines key bindings for the form
type formKeyMap struct {
	NextMode  key.Binding
	ModeText  key.Binding
	ModeURL   key.Binding
	ModeWiFi  key.Binding
	NextField key.Binding
	PrevField key.Binding
	Cycle     key.Binding
	Reveal    key.Binding
	ExportPNG key.Binding
	ExportSVG key.Binding
	Copy      key.Binding
	Quit      key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextMode, k.NextField, k.ExportPNG, k.ExportSVG, k.Copy, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextMode, k.ModeText, k.ModeURL, k.ModeWiFi},
		{k.NextField, k.PrevField, k.Cycle, k.Reveal},
		{k.ExportPNG, k.ExportSVG, k.Copy, k.Quit},
	}
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		NextMode: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "mode"),
		),
		ModeText: key.NewBinding(
			key.WithKeys("alt+1"),
			key.WithHelp("alt+1", "text"),
		),
		ModeURL: key.NewBinding(
			key.WithKeys("alt+2"),
			key.WithHelp("alt+2", "url"),
		),
		ModeWiFi: key.NewBinding(
			key.WithKeys("alt+3"),
			key.WithHelp("alt+3", "wifi"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("left", "right", " ", "enter"),
			key.WithHelp("←/→", "encryption"),
		),
		Reveal: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "show password"),
		),
		ExportPNG: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save png"),
		),
		ExportSVG: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "save svg"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy payload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// Options configure a new form
type Options struct {
	Mode       payload.Mode
	Encryption payload.Encryption
	Size       int         // Export image size in pixels
	EscapeWiFi bool        // Backslash-escape WiFi special characters
	Sink       export.Sink // Where exports are delivered
	OutputDir  string      // Shown in status messages
}

// FormModel is the interactive QR form
type FormModel struct {
	Form     *form.Form
	Renderer *render.Renderer
	Exporter *export.Exporter
	Symbol   *render.Symbol

	inputs [numInputs]textinput.Model
	focus  field

	OutputDir string
	Status    string
	StatusErr bool

	// Width and height of the terminal
	Width  int
	Height int

	Help help.Model
	Keys formKeyMap

	// clipboard writer, replaced in tests
	copyFn func(string) error
}

// NewFormModel creates a form in opts.Mode with every field empty
func NewFormModel(opts Options) FormModel {
	f := form.New()
	f.SetMode(opts.Mode)
	if opts.Encryption != "" {
		f.SetEncryption(opts.Encryption)
	}
	f.SetEscapeWiFi(opts.EscapeWiFi)

	sink := opts.Sink
	if sink == nil {
		sink = export.NewDirSink(".")
	}
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	m := FormModel{
		Form:      f,
		Renderer:  render.New(opts.Size),
		Exporter:  export.New(sink),
		OutputDir: outputDir,
		Help:      help.New(),
		Keys:      newFormKeyMap(),
		copyFn:    clipboard.WriteAll,
	}

	m.inputs[fieldText] = newInput("Type any text", 0)
	m.inputs[fieldURL] = newInput("https://example.com", 0)
	m.inputs[fieldSSID] = newInput("Network name", 32)

	// No limit: a 64 digit hex WPA key is valid
	pw := newInput("Password", 0)
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	m.inputs[fieldPassword] = pw

	m.focusField(fieldsFor(f.Mode())[0])
	m.refresh()
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	ti.Prompt = "› "
	return ti
}

// Init implements tea.Model
func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case exportDoneMsg:
		m.handleExportDone(msg)
		return m, nil

	case copyDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Copy failed: %v", msg.err), true)
		} else {
			m.setStatus("Payload copied to clipboard", false)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.Keys.NextMode):
			m.Form.NextMode()
			return m.afterModeChange()

		case key.Matches(msg, m.Keys.ModeText):
			m.Form.SetMode(payload.ModeText)
			return m.afterModeChange()

		case key.Matches(msg, m.Keys.ModeURL):
			m.Form.SetMode(payload.ModeURL)
			return m.afterModeChange()

		case key.Matches(msg, m.Keys.ModeWiFi):
			m.Form.SetMode(payload.ModeWiFi)
			return m.afterModeChange()

		case key.Matches(msg, m.Keys.NextField):
			m.moveFocus(1)
			return m, nil

		case key.Matches(msg, m.Keys.PrevField):
			m.moveFocus(-1)
			return m, nil

		case key.Matches(msg, m.Keys.Reveal):
			m.togglePassword()
			return m, nil

		case key.Matches(msg, m.Keys.ExportPNG):
			return m, exportCmd(m.Exporter, m.Symbol, export.FormatPNG)

		case key.Matches(msg, m.Keys.ExportSVG):
			return m, exportCmd(m.Exporter, m.Symbol, export.FormatSVG)

		case key.Matches(msg, m.Keys.Copy):
			return m, copyCmd(m.copyFn, m.Form.Payload())

		case m.focus == fieldEncryption && key.Matches(msg, m.Keys.Cycle):
			m.Form.CycleEncryption()
			m.refresh()
			return m, nil
		}
	}

	if m.focus == fieldEncryption {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.syncForm()
	m.refresh()
	return m, cmd
}

func (m FormModel) afterModeChange() (tea.Model, tea.Cmd) {
	m.focusField(fieldsFor(m.Form.Mode())[0])
	m.refresh()
	return m, textinput.Blink
}

// moveFocus moves focus within the fields of the active mode, wrapping
func (m *FormModel) moveFocus(delta int) {
	fields := fieldsFor(m.Form.Mode())
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
		}
	}
	n := len(fields)
	m.focusField(fields[(idx+delta+n)%n])
}

func (m *FormModel) focusField(f field) {
	m.focus = f
	for i := range m.inputs {
		if field(i) == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	m.Keys.Cycle.SetEnabled(f == fieldEncryption)
}

func (m *FormModel) togglePassword() {
	pw := &m.inputs[fieldPassword]
	if pw.EchoMode == textinput.EchoPassword {
		pw.EchoMode = textinput.EchoNormal
	} else {
		pw.EchoMode = textinput.EchoPassword
	}
}

// syncForm copies every input value into the form
func (m *FormModel) syncForm() {
	m.Form.SetText(m.inputs[fieldText].Value())
	m.Form.SetURL(m.inputs[fieldURL].Value())
	m.Form.SetSSID(m.inputs[fieldSSID].Value())
	m.Form.SetPassword(m.inputs[fieldPassword].Value())
}

// refresh re-renders the symbol for the current payload and toggles the
// bindings that need a non-empty payload
func (m *FormModel) refresh() {
	m.Symbol = m.Renderer.Render(m.Form.Payload())

	canExport := m.Form.CanExport() && !m.Symbol.Empty()
	m.Keys.ExportPNG.SetEnabled(canExport)
	m.Keys.ExportSVG.SetEnabled(canExport)
	m.Keys.Copy.SetEnabled(m.Form.CanExport())
}

func (m *FormModel) setStatus(s string, isErr bool) {
	m.Status = s
	m.StatusErr = isErr
}

func (m *FormModel) handleExportDone(msg exportDoneMsg) {
	filename := export.PNGFilename
	if msg.format == export.FormatSVG {
		filename = export.SVGFilename
	}

	switch {
	case msg.err != nil:
		m.setStatus(fmt.Sprintf("Export failed: %v", msg.err), true)
	case msg.delivered && msg.location != "":
		m.setStatus(fmt.Sprintf("Saved %s", msg.location), false)
	case msg.delivered:
		m.setStatus(fmt.Sprintf("Saved %s to %s", filename, m.OutputDir), false)
	}
}

func exportCmd(exporter *export.Exporter, sym *render.Symbol, format export.Format) tea.Cmd {
	return func() tea.Msg {
		d, err := exporter.Deliver(context.Background(), format, sym)
		msg := exportDoneMsg{format: format, delivered: d != nil, err: err}
		if d != nil {
			msg.location = d.Location
		}
		return msg
	}
}

func copyCmd(copyFn func(string) error, s string) tea.Cmd {
	return func() tea.Msg {
		return copyDoneMsg{err: copyFn(s)}
	}
}

// View implements tea.Model
func (m FormModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	for _, f := range fieldsFor(m.Form.Mode()) {
		b.WriteString(m.renderField(f))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderPreview())
	b.WriteString("\n")

	if m.Symbol.Err != nil {
		b.WriteString(WarningStyle.Render("Payload too long to encode at error-correction level H"))
		b.WriteString("\n")
	}

	if m.Status != "" {
		style := StatusStyle
		if m.StatusErr {
			style = StatusErrorStyle
		}
		b.WriteString(style.Render(m.Status))
		b.WriteString("\n")
	}

	return RenderApplicationContainer(b.String(), m.Help.View(m.Keys), m.Width, m.Height)
}

func (m FormModel) renderTabs() string {
	tabs := make([]string, 0, len(payload.Modes))
	for _, mode := range payload.Modes {
		if mode == m.Form.Mode() {
			tabs = append(tabs, ActiveTabStyle.Render(mode.Label()))
		} else {
			tabs = append(tabs, TabStyle.Render(mode.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m FormModel) renderField(f field) string {
	label := LabelStyle.Render(fieldLabels[f])
	if f == m.focus {
		label = FocusedLabelStyle.Render(fieldLabels[f])
	}

	if f == fieldEncryption {
		choices := make([]string, 0, len(payload.Encryptions))
		current := m.Form.Values().Encryption
		for _, enc := range payload.Encryptions {
			if enc == current {
				choices = append(choices, SelectedChoiceStyle.Render("("+string(enc)+")"))
			} else {
				choices = append(choices, ChoiceStyle.Render(" "+string(enc)+" "))
			}
		}
		return label + strings.Join(choices, " ")
	}

	return label + m.inputs[f].View()
}

func (m FormModel) renderPreview() string {
	if m.Symbol.Empty() {
		return PlaceholderStyle.Render("Enter something to generate a QR code")
	}
	return PreviewStyle.Render(strings.TrimRight(m.Symbol.Terminal, "\n"))
}

// Run starts the interactive form in the alternate screen
func Run(opts Options) error {
	p := tea.NewProgram(NewFormModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/qrgen/internal/config"
	"github.com/muurk/qrgen/internal/export"
	"github.com/muurk/qrgen/internal/form"
	"github.com/muurk/qrgen/internal/payload"
	"github.com/muurk/qrgen/internal/render"
	"github.com/muurk/qrgen/internal/server"
	"github.com/muurk/qrgen/internal/tui"
	"github.com/muurk/qrgen/internal/ui"
	"github.com/muurk/qrgen/internal/urls"
)

// Form flags, shared by generate and payload
var (
	modeName     string
	textValue    string
	urlValue     string
	ssidValue    string
	passwordVal  string
	encryptionNm string
	escapeWiFi   bool
)

// Export flags
var (
	outputFormat string
	outputDir    string
	imageSize    int
	noClobber    bool
	payloadJSON  bool
)

func init() {
	rootCmd.AddCommand(formCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(payloadCmd)

	for _, cmd := range []*cobra.Command{rootCmd, formCmd} {
		cmd.Flags().StringVar(&modeName, "mode", "", "Initial mode (text, url, wifi)")
		cmd.Flags().StringVar(&outputDir, "out", "", "Directory exports are written to")
		cmd.Flags().IntVar(&imageSize, "size", 0, "Image size in pixels")
		cmd.Flags().BoolVar(&escapeWiFi, "escape-wifi", false, `Backslash-escape \ ; , : " in SSID and password`)
		cmd.Flags().BoolVar(&noClobber, "no-clobber", false, "Never overwrite existing exports")
	}

	addFormFlags(generateCmd)
	generateCmd.Flags().StringVar(&outputFormat, "format", "both", "Output format (png, svg, both, terminal)")
	generateCmd.Flags().StringVar(&outputDir, "out", "", "Directory exports are written to")
	generateCmd.Flags().IntVar(&imageSize, "size", 0, "Image size in pixels")
	generateCmd.Flags().BoolVar(&noClobber, "no-clobber", false, "Never overwrite existing exports")

	addFormFlags(payloadCmd)
	payloadCmd.Flags().BoolVar(&payloadJSON, "json", false, "Print mode, payload and exportable as JSON")
}

func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&modeName, "mode", "", "Content mode (text, url, wifi)")
	cmd.Flags().StringVar(&textValue, "text", "", "Free text (text mode)")
	cmd.Flags().StringVar(&urlValue, "url", "", "URL, used verbatim (url mode)")
	cmd.Flags().StringVar(&ssidValue, "ssid", "", "Network name (wifi mode)")
	cmd.Flags().StringVar(&passwordVal, "password", "", "Network password (wifi mode)")
	cmd.Flags().StringVar(&encryptionNm, "encryption", "", "Network encryption (WPA, WEP, nopass)")
	cmd.Flags().BoolVar(&escapeWiFi, "escape-wifi", false, `Backslash-escape \ ; , : " in SSID and password`)
}

// formFromFlags builds a form from the preferences and the changed flags
func formFromFlags(cmd *cobra.Command, prefs *config.Preferences) *form.Form {
	f := form.New()
	f.SetMode(prefs.Mode())
	f.SetEncryption(prefs.Encryption())
	f.SetEscapeWiFi(prefs.EscapeWiFi)

	flags := cmd.Flags()
	if flags.Changed("mode") {
		f.SetMode(payload.ParseMode(modeName))
	}
	if flags.Changed("escape-wifi") {
		f.SetEscapeWiFi(escapeWiFi)
	}

	values := map[string]*string{
		"text":       &textValue,
		"url":        &urlValue,
		"ssid":       &ssidValue,
		"password":   &passwordVal,
		"encryption": &encryptionNm,
	}
	for _, name := range form.Fields {
		if flags.Changed(name) {
			f.Set(name, *values[name])
		}
	}

	// A mode given without --mode is implied by its only field
	if !flags.Changed("mode") {
		switch {
		case flags.Changed("ssid"), flags.Changed("password"):
			f.SetMode(payload.ModeWiFi)
		case flags.Changed("url"):
			f.SetMode(payload.ModeURL)
		case flags.Changed("text"):
			f.SetMode(payload.ModeText)
		}
	}
	return f
}

// exportSettings resolves size, directory and clobbering from flags and preferences
func exportSettings(cmd *cobra.Command, prefs *config.Preferences) (size int, dir string, keep bool) {
	size, dir, keep = prefs.Size, prefs.OutputDir, prefs.NoClobber
	if cmd.Flags().Changed("size") {
		size = imageSize
	}
	if cmd.Flags().Changed("out") {
		dir = outputDir
	}
	if cmd.Flags().Changed("no-clobber") {
		keep = noClobber
	}
	return render.ClampSize(size), dir, keep
}

// parseOutputFormat splits --format into file formats and terminal output
func parseOutputFormat(s string) (formats []export.Format, terminal bool, err error) {
	if strings.EqualFold(strings.TrimSpace(s), "terminal") {
		return nil, true, nil
	}
	formats, err = export.ParseFormats(s)
	return formats, false, err
}

// formCmd launches the interactive form
var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Launch the interactive form",
	Long: `Launch an interactive terminal form with a live QR preview.

Switch between Text, URL and WiFi with ctrl+t (or alt+1..3). Values of
each mode are kept while you switch. Exports are offered once the
payload is non-empty.`,
	Example: `  # Launch the form
  qrgen form
  # Or simply (form is default):
  qrgen

  # Start in WiFi mode and save exports to ~/Downloads
  qrgen --mode wifi --out ~/Downloads`,
	RunE: runForm,
}

func runForm(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	prefs := reg.Preferences

	mode := prefs.Mode()
	if cmd.Flags().Changed("mode") {
		mode = payload.ParseMode(modeName)
	}
	escape := prefs.EscapeWiFi
	if cmd.Flags().Changed("escape-wifi") {
		escape = escapeWiFi
	}
	size, dir, keep := exportSettings(cmd, prefs)

	sink := export.NewDirSink(dir)
	sink.NoClobber = keep

	return tui.Run(tui.Options{
		Mode:       mode,
		Encryption: prefs.Encryption(),
		Size:       size,
		EscapeWiFi: escape,
		Sink:       sink,
		OutputDir:  dir,
	})
}

// generateCmd exports a QR code without the interactive form
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate qrcode.png and qrcode.svg",
	Long: `Generate a QR code from flags and export it.

The mode is taken from --mode, or implied by the fields given. Exports
are named qrcode.png and qrcode.svg. An empty payload exports nothing.`,
	Example: `  # Text
  qrgen generate --text "hello"

  # URL as PNG only
  qrgen generate --url https://example.com --format png

  # WiFi credentials into a directory, keeping older exports
  qrgen generate --ssid Home --password secret1 --encryption WPA --out ./codes --no-clobber

  # Preview in the terminal
  qrgen generate --url https://example.com --format terminal`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Suppress usage on execution errors (we're past argument parsing)
	cmd.SilenceUsage = true

	formats, terminal, err := parseOutputFormat(outputFormat)
	if err != nil {
		return err
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	f := formFromFlags(cmd, reg.Preferences)
	size, dir, keep := exportSettings(cmd, reg.Preferences)

	p := ui.NewPrinter(cmd.OutOrStdout())
	header := []ui.Field{
		{Key: "Content", Value: f.Describe()},
		{Key: "Size", Value: fmt.Sprintf("%d px", size)},
	}
	if !terminal {
		header = append(header, ui.Field{Key: "Output", Value: dir})
	}
	p.PrintHeader("Generate QR Code", "qrgen generate", header)

	if !f.CanExport() {
		p.PrintWarning("Nothing to export", []ui.Field{
			{Key: "Reason", Value: "the payload is empty"},
		})
		return nil
	}

	sym := render.New(size).Render(f.Payload())
	if sym.Empty() {
		p.PrintError("Encoding failed", sym.Err, []string{
			"Shorten the text; level H holds at most 1273 bytes",
			"Check the payload with: qrgen payload",
			"Report unexpected failures at " + urls.Issues,
		})
		return fmt.Errorf("failed to encode payload: %w", sym.Err)
	}

	if terminal {
		p.PrintSymbol(sym.Terminal)
		return nil
	}

	sink := export.NewDirSink(dir)
	sink.NoClobber = keep
	exporter := export.New(sink)

	for _, format := range formats {
		if _, err := exporter.Export(context.Background(), format, sym); err != nil {
			p.PrintError("Export failed", err, []string{
				"Check that " + dir + " is writable",
				"Choose another directory with --out",
			})
			return err
		}
	}

	details := make([]ui.Field, 0, len(formats))
	for _, path := range sink.Written() {
		details = append(details, ui.Field{Key: "Saved", Value: path})
	}
	p.PrintSuccess("QR code exported", details)
	return nil
}

// payloadCmd prints the encoded payload
var payloadCmd = &cobra.Command{
	Use:   "payload",
	Short: "Print the encoded payload",
	Long: `Print the exact string that would be encoded into the QR code.

Useful for scripting and for checking WiFi payloads before printing them.
The WiFi format is described at:
  ` + urls.WiFiFormat,
	Example: `  qrgen payload --ssid Home --password secret1
  # WIFI:T:WPA;S:Home;P:secret1;;

  qrgen payload --url example.com --json`,
	Args: cobra.NoArgs,
	RunE: runPayload,
}

func runPayload(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	f := formFromFlags(cmd, reg.Preferences)
	out := cmd.OutOrStdout()

	if payloadJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(server.PayloadResponse{
			Mode:       f.Mode().String(),
			Payload:    f.Payload(),
			Exportable: f.CanExport(),
		})
	}

	_, err = fmt.Fprintln(out, f.Payload())
	return err
}

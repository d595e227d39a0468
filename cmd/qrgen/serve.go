package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/qrgen/internal/discovery"
	"github.com/muurk/qrgen/internal/logging"
	"github.com/muurk/qrgen/internal/render"
	"github.com/muurk/qrgen/internal/server"
	"github.com/muurk/qrgen/internal/ui"
)

// Server command flags
var (
	serveHost      string
	servePort      int
	serveAdvertise bool
	serveName      string
	scanTimeout    int
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveAdvertise, "advertise", false, "Announce the server over mDNS ("+discovery.ServiceType+")")
	serveCmd.Flags().StringVar(&serveName, "name", "", `mDNS instance name (default "qrgen on <hostname>")`)
	serveCmd.Flags().IntVar(&imageSize, "size", 0, "Image size in pixels")
	serveCmd.Flags().BoolVar(&escapeWiFi, "escape-wifi", false, `Backslash-escape \ ; , : " in SSID and password`)

	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
}

// serveCmd runs the web form
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the QR form over HTTP",
	Long: `Serve a web form with a live QR preview and download links for
qrcode.png and qrcode.svg.

The server shuts down gracefully on SIGINT or SIGTERM. With --advertise
it announces itself over mDNS so 'qrgen scan' can find it.`,
	Example: `  # Local only
  qrgen serve

  # Reachable from the LAN and discoverable
  qrgen serve --host 0.0.0.0 --port 9000 --advertise --name "Front desk"

  # Verbose request logs
  qrgen serve --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	prefs, sp := reg.Preferences, reg.Server

	cfg := &server.Config{
		Host:        sp.Host,
		Port:        sp.Port,
		DefaultMode: prefs.Mode(),
		Size:        render.ClampSize(prefs.Size),
		EscapeWiFi:  prefs.EscapeWiFi,
		Advertise:   sp.Advertise,
		Name:        sp.Name,
		LogLevel:    serveLogLevel(),
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = serveHost
	}
	if flags.Changed("port") {
		cfg.Port = servePort
	}
	if flags.Changed("advertise") {
		cfg.Advertise = serveAdvertise
	}
	if flags.Changed("name") {
		cfg.Name = serveName
	}
	if flags.Changed("size") {
		cfg.Size = render.ClampSize(imageSize)
	}
	if flags.Changed("escape-wifi") {
		cfg.EscapeWiFi = escapeWiFi
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	params := []ui.Field{
		{Key: "Address", Value: "http://" + srv.Addr() + "/"},
		{Key: "Size", Value: fmt.Sprintf("%d px", cfg.Size)},
		{Key: "mDNS", Value: strconv.FormatBool(cfg.Advertise)},
	}
	ui.NewPrinter(cmd.OutOrStdout()).PrintHeader("QR Form Server", "qrgen serve", params)

	return srv.Start()
}

// serveLogLevel keeps request logs on for the server unless a level was
// chosen explicitly
func serveLogLevel() string {
	if logLevel != "" {
		return logLevel
	}
	if os.Getenv(logging.LogLevelEnvVar) != "" {
		return ""
	}
	return "info"
}

// scanCmd lists servers announced over mDNS
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find qrgen servers on the network",
	Long: `Scan for qrgen servers started with 'qrgen serve --advertise'.

This command browses mDNS for ` + discovery.ServiceType + ` services and lists every
server that answers before the timeout.`,
	Example: `  # Scan for 5 seconds (default)
  qrgen scan

  # Longer scan for busy networks
  qrgen scan --timeout 15`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	p := ui.NewPrinter(cmd.OutOrStdout())

	p.PrintHeader("Scan", "qrgen scan", []ui.Field{
		{Key: "Service", Value: discovery.ServiceType},
		{Key: "Timeout", Value: fmt.Sprintf("%ds", scanTimeout)},
	})

	instances, err := discovery.Scan(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		p.PrintError("Scan failed", err, []string{
			"Check that multicast is allowed on this network",
			"Make sure UDP port 5353 is not blocked by a firewall",
		})
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(instances) == 0 {
		p.PrintWarning("No servers found", []ui.Field{
			{Key: "Hint", Value: "start one with: qrgen serve --advertise"},
			{Key: "Hint", Value: "try increasing --timeout for slower networks"},
		})
		return nil
	}

	for _, inst := range instances {
		details := []ui.Field{
			{Key: "URL", Value: inst.URL()},
			{Key: "Host", Value: inst.Hostname},
		}
		if inst.Version != "" {
			details = append(details, ui.Field{Key: "Version", Value: inst.Version})
		}
		p.PrintSuccess(inst.Name, details)
	}
	return nil
}

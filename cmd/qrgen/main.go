// Qrgen generates QR codes for free text, URLs and WiFi credentials.
//
// It offers an interactive form in the terminal, one-shot exports to
// qrcode.png and qrcode.svg, and a small web server with a live preview
// that can announce itself over mDNS.
//
// Usage:
//
//	qrgen [command] [flags]
//
// Running without arguments launches the interactive form.
// See 'qrgen --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/qrgen/internal/config"
	"github.com/muurk/qrgen/internal/logging"
	"github.com/muurk/qrgen/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "qrgen",
	Short: "QR code generator",
	Long: `Generate QR codes for free text, URLs and WiFi credentials.

Pick a content type, fill in its fields and export the code as
qrcode.png (raster) or qrcode.svg (vector). All codes use error
correction level H.

If no command is specified, the interactive form will launch automatically.`,
	Version:           version.Version,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the form when no subcommand provided
		return runForm(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides "+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is the user config directory)")

	rootCmd.AddCommand(versionCmd)
}

func setupLogging(cmd *cobra.Command, args []string) error {
	if logLevel != "" {
		return logging.Initialize(logLevel)
	}
	return logging.InitializeFromEnv()
}

// loadRegistry loads --config when given, otherwise the user config file
func loadRegistry() (*config.Registry, error) {
	var (
		reg *config.Registry
		err error
	)
	if configPath != "" {
		reg, err = config.LoadFrom(configPath)
	} else {
		reg, err = config.LoadRegistry()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return reg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "qrgen %s\n", version.Full())
	},
}

// Package config provides user preference management for qrgen.
//
// Preferences are stored in a YAML file following OS-specific conventions:
//   - Linux: $XDG_CONFIG_HOME/qrgen/config.yaml or $HOME/.config/qrgen/config.yaml
//   - macOS: $HOME/.config/qrgen/config.yaml
//   - Windows: %LOCALAPPDATA%\qrgen\config.yaml
//
// # Security
//
// This package NEVER stores form contents. Text, URLs, SSIDs and WiFi
// passwords live only for the duration of a session. The file holds defaults
// such as the initial mode, image size and output directory.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//	registry.Preferences.Size = 512
//	if err := registry.Save(); err != nil {
//	    return err
//	}
//
// Command-line flags always take precedence over stored preferences.
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config

package config

import (
	"fmt"

	"github.com/muurk/qrgen/internal/payload"
	"github.com/muurk/qrgen/internal/render"
)

// CurrentVersion is the only supported config file version.
const CurrentVersion = 1

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int          `yaml:"version"`
	Preferences *Preferences `yaml:"preferences,omitempty"`
	Server      *ServerPrefs `yaml:"server,omitempty"`
}

// Preferences holds defaults for new forms and exports.
type Preferences struct {
	DefaultMode       string `yaml:"default_mode"`       // text, url or wifi
	DefaultEncryption string `yaml:"default_encryption"` // WPA, WEP or nopass
	Size              int    `yaml:"size"`               // Image size in pixels
	OutputDir         string `yaml:"output_dir"`         // Where exports are written
	EscapeWiFi        bool   `yaml:"escape_wifi"`        // Backslash-escape WiFi special characters
	NoClobber         bool   `yaml:"no_clobber"`         // Keep existing files when exporting
}

// ServerPrefs holds defaults for "qrgen serve".
type ServerPrefs struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Advertise bool   `yaml:"advertise"` // Announce the server over mDNS
	Name      string `yaml:"name,omitempty"`
}

func defaultPreferences() *Preferences {
	return &Preferences{
		DefaultMode:       payload.ModeText.String(),
		DefaultEncryption: string(payload.DefaultEncryption),
		Size:              render.DefaultSize,
		OutputDir:         ".",
	}
}

func defaultServerPrefs() *ServerPrefs {
	return &ServerPrefs{
		Host: "127.0.0.1",
		Port: 8080,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Preferences: defaultPreferences(),
		Server:      defaultServerPrefs(),
	}
}

// applyDefaults fills sections missing from a loaded file.
func (r *Registry) applyDefaults() {
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}
	if r.Preferences.Size == 0 {
		r.Preferences.Size = render.DefaultSize
	}
	if r.Preferences.OutputDir == "" {
		r.Preferences.OutputDir = "."
	}
	if r.Server == nil {
		r.Server = defaultServerPrefs()
	}
	if r.Server.Port == 0 {
		r.Server.Port = 8080
	}
}

// Mode returns the preferred initial mode.
func (p *Preferences) Mode() payload.Mode {
	return payload.ParseMode(p.DefaultMode)
}

// Encryption returns the preferred initial WiFi encryption.
func (p *Preferences) Encryption() payload.Encryption {
	return payload.ParseEncryption(p.DefaultEncryption)
}

// Validate checks the registry for values the application cannot use.
func (r *Registry) Validate() []error {
	var errs []error

	if r.Preferences != nil {
		p := r.Preferences
		if p.DefaultMode != "" && payload.ParseMode(p.DefaultMode).String() != p.DefaultMode {
			errs = append(errs, fmt.Errorf("preferences.default_mode: unknown mode %q", p.DefaultMode))
		}
		if p.Size != 0 && render.ClampSize(p.Size) != p.Size {
			errs = append(errs, fmt.Errorf("preferences.size: must be between %d and %d, got %d", render.MinSize, render.MaxSize, p.Size))
		}
	}

	if r.Server != nil && (r.Server.Port < 0 || r.Server.Port > 65535) {
		errs = append(errs, fmt.Errorf("server.port: must be between 1 and 65535, got %d", r.Server.Port))
	}

	return errs
}

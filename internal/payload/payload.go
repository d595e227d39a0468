package payload

import (
	"fmt"
	"strings"
)

// Mode is the active content type of the form.
type Mode int

const (
	ModeText Mode = iota
	ModeURL
	ModeWiFi
)

// Modes lists every mode in selector order.
var Modes = []Mode{ModeText, ModeURL, ModeWiFi}

// String returns the lowercase name used on the command line and in the API.
func (m Mode) String() string {
	switch m {
	case ModeURL:
		return "url"
	case ModeWiFi:
		return "wifi"
	default:
		return "text"
	}
}

// Label returns the display name of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeURL:
		return "URL"
	case ModeWiFi:
		return "WiFi"
	default:
		return "Text"
	}
}

// ParseMode converts a mode name to a Mode.
// Unknown names fall back to ModeText.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "url":
		return ModeURL
	case "wifi":
		return ModeWiFi
	default:
		return ModeText
	}
}

// Encryption is the WiFi authentication type written into the T: field.
type Encryption string

const (
	EncryptionWPA    Encryption = "WPA"
	EncryptionWEP    Encryption = "WEP"
	EncryptionNoPass Encryption = "nopass"
)

// DefaultEncryption is used by new forms.
const DefaultEncryption = EncryptionWPA

// Encryptions lists the supported encryption types in selector order.
var Encryptions = []Encryption{EncryptionWPA, EncryptionWEP, EncryptionNoPass}

// ParseEncryption converts a name to an Encryption, case-insensitively.
// Unknown names fall back to DefaultEncryption.
func ParseEncryption(s string) Encryption {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wep":
		return EncryptionWEP
	case "nopass", "none", "open":
		return EncryptionNoPass
	default:
		return DefaultEncryption
	}
}

// Next returns the encryption that follows e in selector order.
func (e Encryption) Next() Encryption {
	for i, enc := range Encryptions {
		if enc == e {
			return Encryptions[(i+1)%len(Encryptions)]
		}
	}
	return DefaultEncryption
}

// FieldValues holds the values of every field of the form.
// Fields of inactive modes are kept as-is.
type FieldValues struct {
	Text       string     `json:"text"`
	URL        string     `json:"url"`
	SSID       string     `json:"ssid"`
	Password   string     `json:"password"`
	Encryption Encryption `json:"encryption"`
}

// Encode returns the QR payload for the given mode and field values.
func Encode(mode Mode, values FieldValues) string {
	switch mode {
	case ModeURL:
		return values.URL
	case ModeWiFi:
		return wifiString(values.Encryption, values.SSID, values.Password)
	default:
		return values.Text
	}
}

// EncodeEscaped is Encode with backslash escaping of \ ; , : and " applied to
// the WiFi SSID and password. Text and URL payloads are unchanged.
func EncodeEscaped(mode Mode, values FieldValues) string {
	if mode != ModeWiFi {
		return Encode(mode, values)
	}
	return wifiString(values.Encryption, EscapeWiFiField(values.SSID), EscapeWiFiField(values.Password))
}

func wifiString(enc Encryption, ssid, password string) string {
	return "WIFI:T:" + string(enc) + ";S:" + ssid + ";P:" + password + ";;"
}

var wifiEscaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	`:`, `\:`,
	`"`, `\"`,
)

// EscapeWiFiField escapes the characters that are special inside a WiFi
// payload field.
func EscapeWiFiField(s string) string {
	return wifiEscaper.Replace(s)
}

// Describe returns a one-line summary of the payload source for headers and
// logs. Passwords are never included.
func Describe(mode Mode, values FieldValues) string {
	switch mode {
	case ModeURL:
		return fmt.Sprintf("URL %q", values.URL)
	case ModeWiFi:
		pw := "no password"
		if values.Password != "" {
			pw = strings.Repeat("•", len([]rune(values.Password)))
		}
		return fmt.Sprintf("WiFi %q (%s, %s)", values.SSID, values.Encryption, pw)
	default:
		return fmt.Sprintf("Text (%d chars)", len([]rune(values.Text)))
	}
}

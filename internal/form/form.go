// Package form holds the state of the QR code form: the active content mode
// and the values of every field.
//
// Switching modes never clears fields belonging to other modes, so a user can
// move between Text, URL and WiFi without losing what they entered. The
// payload is never stored; it is recomputed from the current state on demand.
//
// A Form is owned by a single session (one TUI run, one websocket connection,
// one HTTP request) and is not safe for concurrent use.
package form

import (
	"github.com/muurk/qrgen/internal/payload"
)

// Field names accepted by Set, in display order.
var Fields = []string{"text", "url", "ssid", "password", "encryption"}

// Form is the form state holder.
type Form struct {
	mode   payload.Mode
	values payload.FieldValues
	escape bool
}

// New returns a form in text mode with every field empty and WPA encryption.
func New() *Form {
	return &Form{
		mode: payload.ModeText,
		values: payload.FieldValues{
			Encryption: payload.DefaultEncryption,
		},
	}
}

// Mode returns the active mode.
func (f *Form) Mode() payload.Mode {
	return f.mode
}

// SetMode switches the active mode. Field values are left untouched.
func (f *Form) SetMode(mode payload.Mode) {
	f.mode = mode
}

// NextMode advances the selector to the following mode, wrapping around.
func (f *Form) NextMode() {
	f.mode = payload.Modes[(f.modeIndex()+1)%len(payload.Modes)]
}

// PrevMode moves the selector to the preceding mode, wrapping around.
func (f *Form) PrevMode() {
	n := len(payload.Modes)
	f.mode = payload.Modes[(f.modeIndex()+n-1)%n]
}

func (f *Form) modeIndex() int {
	for i, m := range payload.Modes {
		if m == f.mode {
			return i
		}
	}
	return 0
}

// Values returns a copy of the field values.
func (f *Form) Values() payload.FieldValues {
	return f.values
}

// SetValues replaces every field value at once.
func (f *Form) SetValues(values payload.FieldValues) {
	if values.Encryption == "" {
		values.Encryption = payload.DefaultEncryption
	}
	f.values = values
}

// SetText sets the free text of text mode.
func (f *Form) SetText(s string) { f.values.Text = s }

// SetURL sets the URL of url mode. It is used verbatim.
func (f *Form) SetURL(s string) { f.values.URL = s }

// SetSSID sets the network name of wifi mode.
func (f *Form) SetSSID(s string) { f.values.SSID = s }

// SetPassword sets the network password of wifi mode.
func (f *Form) SetPassword(s string) { f.values.Password = s }

// SetEncryption sets the WiFi encryption type.
func (f *Form) SetEncryption(e payload.Encryption) {
	f.values.Encryption = e
}

// CycleEncryption advances the encryption selector.
func (f *Form) CycleEncryption() {
	f.values.Encryption = f.values.Encryption.Next()
}

// SetEscapeWiFi enables backslash escaping of special characters in WiFi
// fields. It is off by default.
func (f *Form) SetEscapeWiFi(enabled bool) {
	f.escape = enabled
}

// EscapeWiFi reports whether WiFi escaping is enabled.
func (f *Form) EscapeWiFi() bool {
	return f.escape
}

// Set assigns a field by name ("text", "url", "ssid", "password",
// "encryption"). Unknown names are ignored and reported as false.
func (f *Form) Set(field, value string) bool {
	switch field {
	case "text":
		f.SetText(value)
	case "url":
		f.SetURL(value)
	case "ssid":
		f.SetSSID(value)
	case "password":
		f.SetPassword(value)
	case "encryption":
		f.SetEncryption(payload.ParseEncryption(value))
	default:
		return false
	}
	return true
}

// Payload returns the encoded payload for the current state.
func (f *Form) Payload() string {
	if f.escape {
		return payload.EncodeEscaped(f.mode, f.values)
	}
	return payload.Encode(f.mode, f.values)
}

// CanExport reports whether export controls should be offered, which is only
// the case once the payload is non-empty.
func (f *Form) CanExport() bool {
	return f.Payload() != ""
}

// Describe returns a password-free summary of the current state.
func (f *Form) Describe() string {
	return payload.Describe(f.mode, f.values)
}

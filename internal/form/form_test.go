package form

import (
	"testing"

	"github.com/muurk/qrgen/internal/payload"
)

func TestNew(t *testing.T) {
	f := New()

	if f.Mode() != payload.ModeText {
		t.Errorf("New().Mode() = %v, want text", f.Mode())
	}

	want := payload.FieldValues{Encryption: payload.EncryptionWPA}
	if f.Values() != want {
		t.Errorf("New().Values() = %+v, want %+v", f.Values(), want)
	}

	if f.Payload() != "" {
		t.Errorf("New().Payload() = %q, want empty", f.Payload())
	}

	if f.CanExport() {
		t.Error("New().CanExport() should be false for an empty payload")
	}
}

func TestSetMode_KeepsOtherFields(t *testing.T) {
	f := New()
	f.SetMode(payload.ModeWiFi)
	f.SetSSID("A")

	f.SetMode(payload.ModeText)
	if f.Values().SSID != "A" {
		t.Errorf("SSID after switching to text = %q, want A", f.Values().SSID)
	}

	f.SetMode(payload.ModeWiFi)
	if f.Values().SSID != "A" {
		t.Errorf("SSID after switching back to wifi = %q, want A", f.Values().SSID)
	}
}

func TestSetMode_Idempotent(t *testing.T) {
	f := New()
	f.SetURL("https://example.com")
	f.SetMode(payload.ModeURL)
	before := f.Values()

	f.SetMode(payload.ModeURL)

	if f.Mode() != payload.ModeURL {
		t.Errorf("Mode() = %v, want url", f.Mode())
	}
	if f.Values() != before {
		t.Errorf("Values() changed on idempotent SetMode: %+v -> %+v", before, f.Values())
	}
}

func TestNextPrevMode(t *testing.T) {
	f := New()

	f.NextMode()
	if f.Mode() != payload.ModeURL {
		t.Errorf("after NextMode() = %v, want url", f.Mode())
	}
	f.NextMode()
	if f.Mode() != payload.ModeWiFi {
		t.Errorf("after NextMode() = %v, want wifi", f.Mode())
	}
	f.NextMode()
	if f.Mode() != payload.ModeText {
		t.Errorf("after NextMode() = %v, want text (wrap)", f.Mode())
	}

	f.PrevMode()
	if f.Mode() != payload.ModeWiFi {
		t.Errorf("after PrevMode() = %v, want wifi (wrap)", f.Mode())
	}
}

func TestPayload_Scenario(t *testing.T) {
	f := New()
	f.SetMode(payload.ModeWiFi)
	f.SetSSID("Home")
	f.SetPassword("secret1")
	f.SetEncryption(payload.EncryptionWEP)

	if got := f.Payload(); got != "WIFI:T:WEP;S:Home;P:secret1;;" {
		t.Errorf("Payload() = %q", got)
	}
	if !f.CanExport() {
		t.Error("CanExport() should be true for a WiFi payload")
	}
}

func TestCanExport_FollowsActiveMode(t *testing.T) {
	f := New()
	f.SetURL("https://example.com")

	if f.CanExport() {
		t.Error("CanExport() should be false while text mode is empty")
	}

	f.SetMode(payload.ModeURL)
	if !f.CanExport() {
		t.Error("CanExport() should be true once url mode has a value")
	}
}

func TestSet(t *testing.T) {
	f := New()

	tests := []struct {
		field string
		value string
		ok    bool
	}{
		{"text", "hello", true},
		{"url", "https://example.com", true},
		{"ssid", "Home", true},
		{"password", "pw", true},
		{"encryption", "wep", true},
		{"colour", "red", false},
	}

	for _, tt := range tests {
		if got := f.Set(tt.field, tt.value); got != tt.ok {
			t.Errorf("Set(%q) = %v, want %v", tt.field, got, tt.ok)
		}
	}

	want := payload.FieldValues{
		Text:       "hello",
		URL:        "https://example.com",
		SSID:       "Home",
		Password:   "pw",
		Encryption: payload.EncryptionWEP,
	}
	if f.Values() != want {
		t.Errorf("Values() = %+v, want %+v", f.Values(), want)
	}
}

func TestEscapeWiFi(t *testing.T) {
	f := New()
	f.SetMode(payload.ModeWiFi)
	f.SetSSID("a;b")

	if got := f.Payload(); got != "WIFI:T:WPA;S:a;b;P:;;" {
		t.Errorf("Payload() without escaping = %q", got)
	}

	f.SetEscapeWiFi(true)
	if got := f.Payload(); got != `WIFI:T:WPA;S:a\;b;P:;;` {
		t.Errorf("Payload() with escaping = %q", got)
	}
}

func TestCycleEncryption(t *testing.T) {
	f := New()
	f.CycleEncryption()
	if f.Values().Encryption != payload.EncryptionWEP {
		t.Errorf("Encryption after cycle = %v, want WEP", f.Values().Encryption)
	}
}

func TestSetValues_DefaultsEncryption(t *testing.T) {
	f := New()
	f.SetValues(payload.FieldValues{SSID: "x"})
	if f.Values().Encryption != payload.DefaultEncryption {
		t.Errorf("Encryption = %q, want default", f.Values().Encryption)
	}
}

func TestFields_AcceptedBySet(t *testing.T) {
	f := New()
	for _, name := range Fields {
		if !f.Set(name, "WEP") {
			t.Errorf("Set(%q) = false, want true", name)
		}
	}
}

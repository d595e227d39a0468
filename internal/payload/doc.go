// Package payload turns form field values into the string that is encoded
// into a QR symbol.
//
// Three content modes are supported:
//   - Text: the text field, verbatim
//   - URL: the URL field, verbatim (no validation, no scheme normalization)
//   - WiFi: the conventional WiFi provisioning string read by phone cameras
//
// # WiFi Format
//
// WiFi credentials are encoded as:
//
//	WIFI:T:<encryption>;S:<ssid>;P:<password>;;
//
// where encryption is one of WPA, WEP or nopass. Encode substitutes the SSID
// and password verbatim. Scanners expect the characters \ ; , : and " to be
// backslash-escaped inside those fields, so networks whose name or password
// contains them produce a payload that some scanners misread. EncodeEscaped
// applies that escaping and is only used when explicitly requested.
//
// # Usage Example
//
//	values := payload.FieldValues{
//	    SSID:       "Home",
//	    Password:   "secret1",
//	    Encryption: payload.EncryptionWEP,
//	}
//	s := payload.Encode(payload.ModeWiFi, values)
//	// s == "WIFI:T:WEP;S:Home;P:secret1;;"
//
// Encode is a pure function: identical inputs always give identical output.
package payload

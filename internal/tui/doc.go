// Package tui implements the interactive QR code form for the terminal.
//
// Built on Bubble Tea, it follows the Elm architecture: FormModel holds the
// state, Update applies key presses, View renders the form and a live preview
// of the QR symbol.
//
// # Layout
//
//   - Mode tabs: Text, URL, WiFi (exactly one active)
//   - Fields for the active mode only (text; url; ssid, password, encryption)
//   - Live preview rendered with half-block characters
//   - Footer with context-sensitive help
//
// Fields of inactive modes keep their values, so switching between tabs never
// loses input.
//
// # Key Bindings
//
//   - ctrl+t / alt+1..3: switch mode
//   - tab / shift+tab: move between fields
//   - ←/→, space or enter on the encryption field: change encryption
//   - ctrl+r: show or hide the WiFi password
//   - ctrl+s: save qrcode.png
//   - ctrl+g: save qrcode.svg
//   - ctrl+y: copy the payload to the clipboard
//   - esc / ctrl+c: quit
//
// The export and copy bindings are disabled (and hidden from the help line)
// while the payload is empty.
//
// # Usage Example
//
//	err := tui.Run(tui.Options{
//	    Sink: export.NewDirSink("."),
//	})
package tui

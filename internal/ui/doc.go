// Package ui provides non-interactive styled terminal output for the qrgen
// CLI.
//
// Commands such as "qrgen generate" print a header describing what is being
// generated, the QR symbol itself, and a success or failure box. These
// components render once and return; the interactive form lives in package
// tui.
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Generate QR Code", "qrgen generate", []ui.Field{
//	    {Key: "Mode", Value: "wifi"},
//	})
//	p.PrintSymbol(sym.Terminal)
//	p.PrintSuccess("Exported", []ui.Field{{Key: "PNG", Value: "./qrcode.png"}})
//
// Logging is controlled separately through QRGEN_LOG_LEVEL so log lines do
// not interleave with this output unless requested.
package ui

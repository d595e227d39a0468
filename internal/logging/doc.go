// Package logging provides structured logging for qrgen.
//
// This package wraps a zap logger with package-level helpers so that every
// component logs through the same sink. Logging is silent by default so the
// interactive form and the styled CLI output are not interleaved with log
// lines; set QRGEN_LOG_LEVEL (or pass --log-level) to enable it.
//
// # Log Levels
//
//   - Debug: render cache hits, websocket frames, per-request details
//   - Info: exports, server lifecycle, sessions
//   - Warn: payloads the QR library refused, recoverable I/O issues
//   - Error: failures surfaced to the user
//
// # Structured Logging
//
//	logging.Info("Export delivered",
//	    zap.String("filename", "qrcode.png"),
//	    zap.Int("bytes", 1832),
//	)
//
// Payload contents are never logged verbatim, only their length, because a
// WiFi payload carries the network password.
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
package logging

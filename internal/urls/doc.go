// Package urls centralizes links shown to users.
//
// Keeping them in one place means the TUI header, CLI help and
// troubleshooting tips never drift apart when the project moves.
package urls

package server

import (
	"embed"
	"html/template"
	"io"

	"github.com/muurk/qrgen/internal/form"
	"github.com/muurk/qrgen/internal/payload"
	"github.com/muurk/qrgen/internal/version"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type modeOption struct {
	Name   string
	Label  string
	Active bool
}

type encryptionOption struct {
	Value    string
	Selected bool
}

type indexData struct {
	Modes       []modeOption
	Encryptions []encryptionOption
	Size        int
	Version     string
}

// renderIndex writes the form page for the initial state of f
func renderIndex(w io.Writer, f *form.Form, size int) error {
	data := indexData{
		Size:    size,
		Version: version.Version,
	}
	for _, m := range payload.Modes {
		data.Modes = append(data.Modes, modeOption{
			Name:   m.String(),
			Label:  m.Label(),
			Active: m == f.Mode(),
		})
	}
	current := f.Values().Encryption
	for _, e := range payload.Encryptions {
		data.Encryptions = append(data.Encryptions, encryptionOption{
			Value:    string(e),
			Selected: e == current,
		})
	}
	return indexTemplate.Execute(w, data)
}

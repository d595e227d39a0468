package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"

	"github.com/muurk/qrgen/internal/logging"
	"github.com/muurk/qrgen/internal/render"
)

// File names and content types of the two exports
const (
	PNGFilename    = "qrcode.png"
	SVGFilename    = "qrcode.svg"
	PNGContentType = "image/png"
	SVGContentType = "image/svg+xml"
)

// Format selects which surface to export.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormats parses "png", "svg" or "both" (also "all").
func ParseFormats(s string) ([]Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return []Format{FormatPNG}, nil
	case "svg":
		return []Format{FormatSVG}, nil
	case "both", "all", "":
		return []Format{FormatPNG, FormatSVG}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q (expected png, svg or both)", s)
	}
}

// Download is a file offered to the user.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte

	// Location is where the sink stored the file, empty if it did not
	Location string
}

// Sink delivers downloads to the user.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string
	// Deliver hands the download to the user.
	Deliver(ctx context.Context, d *Download) error
}

// Exporter exports rendered symbols through a Sink.
type Exporter struct {
	sink Sink
}

// New creates an exporter delivering to sink.
func New(sink Sink) *Exporter {
	return &Exporter{sink: sink}
}

// Export runs the export for format. See ExportPNG and ExportSVG.
func (e *Exporter) Export(ctx context.Context, format Format, sym *render.Symbol) (bool, error) {
	d, err := e.Deliver(ctx, format, sym)
	return d != nil, err
}

// ExportPNG delivers the raster surface as qrcode.png. It reports false
// without error when the symbol has no raster.
func (e *Exporter) ExportPNG(ctx context.Context, sym *render.Symbol) (bool, error) {
	return e.Export(ctx, FormatPNG, sym)
}

// ExportSVG delivers the vector surface as qrcode.svg. It reports false
// without error when the symbol has no vector.
func (e *Exporter) ExportSVG(ctx context.Context, sym *render.Symbol) (bool, error) {
	return e.Export(ctx, FormatSVG, sym)
}

// Deliver exports like Export and returns the delivered download, with
// Location filled in by sinks that store files. It returns nil when there
// was nothing to export.
func (e *Exporter) Deliver(ctx context.Context, format Format, sym *render.Symbol) (*Download, error) {
	var d *Download
	switch format {
	case FormatPNG:
		var err error
		if d, err = PNGDownload(sym); err != nil {
			return nil, err
		}
	case FormatSVG:
		d = SVGDownload(sym)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	if d == nil {
		return nil, nil
	}

	if err := e.sink.Deliver(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to deliver %s: %w", d.Filename, err)
	}
	logging.LogExport(e.sink.Name(), d.Filename, d.ContentType, len(d.Data))
	return d, nil
}

// PNGDownload encodes the raster surface. It returns nil when there is none.
func PNGDownload(sym *render.Symbol) (*Download, error) {
	if sym == nil || sym.Raster == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sym.Raster); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return &Download{
		Filename:    PNGFilename,
		ContentType: PNGContentType,
		Data:        buf.Bytes(),
	}, nil
}

// SVGDownload wraps the vector surface. It returns nil when there is none.
func SVGDownload(sym *render.Symbol) *Download {
	if sym == nil || sym.Vector == "" {
		return nil
	}
	return &Download{
		Filename:    SVGFilename,
		ContentType: SVGContentType,
		Data:        []byte(sym.Vector),
	}
}

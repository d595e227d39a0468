package export

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muurk/qrgen/internal/render"
)

type failingSink struct{}

func (failingSink) Name() string { return "failing" }

func (failingSink) Deliver(ctx context.Context, d *Download) error {
	return errors.New("disk full")
}

func renderSymbol(t *testing.T, payload string) *render.Symbol {
	t.Helper()
	sym := render.New(128).Render(payload)
	if sym.Empty() {
		t.Fatalf("render of %q unexpectedly empty", payload)
	}
	return sym
}

func TestExportPNG(t *testing.T) {
	sink := &MemorySink{}
	exporter := New(sink)

	ok, err := exporter.ExportPNG(context.Background(), renderSymbol(t, "hello"))
	if err != nil {
		t.Fatalf("ExportPNG() error = %v", err)
	}
	if !ok {
		t.Fatal("ExportPNG() should report a delivery")
	}

	downloads := sink.Downloads()
	if len(downloads) != 1 {
		t.Fatalf("expected 1 download, got %d", len(downloads))
	}

	d := downloads[0]
	if d.Filename != "qrcode.png" {
		t.Errorf("Filename = %q, want qrcode.png", d.Filename)
	}
	if d.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", d.ContentType)
	}

	img, err := png.Decode(bytes.NewReader(d.Data))
	if err != nil {
		t.Fatalf("exported data is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 128 {
		t.Errorf("PNG width = %d, want 128", img.Bounds().Dx())
	}
}

func TestExportSVG(t *testing.T) {
	sink := &MemorySink{}
	exporter := New(sink)
	sym := renderSymbol(t, "https://example.com")

	ok, err := exporter.ExportSVG(context.Background(), sym)
	if err != nil || !ok {
		t.Fatalf("ExportSVG() = %v, %v; want true, nil", ok, err)
	}

	d := sink.Downloads()[0]
	if d.Filename != "qrcode.svg" {
		t.Errorf("Filename = %q, want qrcode.svg", d.Filename)
	}
	if d.ContentType != "image/svg+xml" {
		t.Errorf("ContentType = %q, want image/svg+xml", d.ContentType)
	}
	if string(d.Data) != sym.Vector {
		t.Error("SVG data should be the symbol's vector markup")
	}
}

func TestExport_EmptySymbolIsNoop(t *testing.T) {
	sink := &MemorySink{}
	exporter := New(sink)
	ctx := context.Background()

	for _, sym := range []*render.Symbol{nil, {}, render.New(128).Render("")} {
		for _, format := range []Format{FormatPNG, FormatSVG} {
			ok, err := exporter.Export(ctx, format, sym)
			if err != nil {
				t.Errorf("Export(%s) error = %v, want nil", format, err)
			}
			if ok {
				t.Errorf("Export(%s) of empty symbol should not deliver", format)
			}
		}
	}

	if n := len(sink.Downloads()); n != 0 {
		t.Errorf("expected no downloads, got %d", n)
	}
}

func TestExport_MissingSurfaceIsNoop(t *testing.T) {
	sink := &MemorySink{}
	exporter := New(sink)
	sym := renderSymbol(t, "hello")

	vectorOnly := *sym
	vectorOnly.Raster = nil
	if ok, err := exporter.ExportPNG(context.Background(), &vectorOnly); ok || err != nil {
		t.Errorf("ExportPNG() without raster = %v, %v; want false, nil", ok, err)
	}

	rasterOnly := *sym
	rasterOnly.Vector = ""
	if ok, err := exporter.ExportSVG(context.Background(), &rasterOnly); ok || err != nil {
		t.Errorf("ExportSVG() without vector = %v, %v; want false, nil", ok, err)
	}
}

func TestExport_SinkError(t *testing.T) {
	exporter := New(failingSink{})

	ok, err := exporter.ExportSVG(context.Background(), renderSymbol(t, "hello"))
	if err == nil {
		t.Fatal("expected error from failing sink")
	}
	if ok {
		t.Error("failed delivery should not be reported as delivered")
	}
	if !strings.Contains(err.Error(), "qrcode.svg") {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input    string
		expected []Format
		wantErr  bool
	}{
		{"png", []Format{FormatPNG}, false},
		{"SVG", []Format{FormatSVG}, false},
		{"both", []Format{FormatPNG, FormatSVG}, false},
		{"", []Format{FormatPNG, FormatSVG}, false},
		{"gif", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseFormats(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormats(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.expected) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.input, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("ParseFormats(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		}
	}
}

func TestDirSink_WritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := NewDirSink(dir)
	exporter := New(sink)
	sym := renderSymbol(t, "hello")
	ctx := context.Background()

	if _, err := exporter.ExportPNG(ctx, sym); err != nil {
		t.Fatalf("ExportPNG() error = %v", err)
	}
	if _, err := exporter.ExportSVG(ctx, sym); err != nil {
		t.Fatalf("ExportSVG() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != 2 || names[0] != "qrcode.png" || names[1] != "qrcode.svg" {
		t.Errorf("directory contents = %v, want [qrcode.png qrcode.svg] and no temporary files", names)
	}

	written := sink.Written()
	if len(written) != 2 || written[0] != filepath.Join(dir, "qrcode.png") {
		t.Errorf("Written() = %v", written)
	}
}

func TestDirSink_Overwrites(t *testing.T) {
	dir := t.TempDir()
	sink := NewDirSink(dir)
	ctx := context.Background()

	for _, data := range []string{"first", "second"} {
		if err := sink.Deliver(ctx, &Download{Filename: "qrcode.svg", Data: []byte(data)}); err != nil {
			t.Fatalf("Deliver() error = %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "qrcode.svg"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("file content = %q, want second", data)
	}
}

func TestDirSink_NoClobber(t *testing.T) {
	dir := t.TempDir()
	sink := &DirSink{Dir: dir, NoClobber: true}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := sink.Deliver(ctx, &Download{Filename: "qrcode.png", Data: []byte{byte(i)}}); err != nil {
			t.Fatalf("Deliver() error = %v", err)
		}
	}

	for _, name := range []string{"qrcode.png", "qrcode-1.png", "qrcode-2.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestDeliver_ReportsLocation(t *testing.T) {
	dir := t.TempDir()
	exporter := New(&DirSink{Dir: dir, NoClobber: true})
	sym := renderSymbol(t, "hello")
	ctx := context.Background()

	for _, want := range []string{"qrcode.png", "qrcode-1.png"} {
		d, err := exporter.Deliver(ctx, FormatPNG, sym)
		if err != nil {
			t.Fatalf("Deliver() error = %v", err)
		}
		if d == nil {
			t.Fatal("Deliver() = nil, want download")
		}
		if d.Location != filepath.Join(dir, want) {
			t.Errorf("Location = %q, want %q", d.Location, filepath.Join(dir, want))
		}
	}
}

func TestDeliver_EmptySymbol(t *testing.T) {
	exporter := New(&MemorySink{})

	d, err := exporter.Deliver(context.Background(), FormatSVG, nil)
	if d != nil || err != nil {
		t.Errorf("Deliver(nil symbol) = %v, %v; want nil, nil", d, err)
	}
}

func TestDirSink_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := NewDirSink(t.TempDir())
	if err := sink.Deliver(ctx, &Download{Filename: "qrcode.png"}); err == nil {
		t.Error("Deliver() with cancelled context should fail")
	}
}

func TestHTTPSink(t *testing.T) {
	rec := httptest.NewRecorder()
	exporter := New(HTTPSink{W: rec})

	ok, err := exporter.ExportSVG(context.Background(), renderSymbol(t, "hello"))
	if err != nil || !ok {
		t.Fatalf("ExportSVG() = %v, %v", ok, err)
	}

	if got := rec.Header().Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="qrcode.svg"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("response body should contain the SVG markup")
	}
}

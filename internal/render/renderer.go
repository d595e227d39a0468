package render

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	svg "github.com/ajstarks/svgo"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/muurk/qrgen/internal/logging"
)

// Level is the error-correction level used for every symbol ("H").
const Level = qrcode.Highest

// Size limits in pixels
const (
	DefaultSize = 256
	MinSize     = 64
	MaxSize     = 4096
)

// Symbol is a rendered QR code. The zero value and nil are both empty.
type Symbol struct {
	Payload  string
	Size     int         // Width and height in pixels; larger than requested for dense payloads
	Modules  int         // Modules per side, including the quiet zone
	Raster   image.Image // nil when empty
	Vector   string      // SVG document, "" when empty
	Terminal string      // Half-block rendering for terminals, "" when empty
	Err      error       // Why the payload could not be encoded, if it could not
}

// Empty reports whether the symbol has no surfaces.
func (s *Symbol) Empty() bool {
	return s == nil || (s.Raster == nil && s.Vector == "")
}

// Renderer renders payloads and keeps the most recent Symbol.
// It is safe for concurrent use.
type Renderer struct {
	mu   sync.Mutex
	size int
	last *Symbol
}

// New creates a renderer producing size x size pixel images.
func New(size int) *Renderer {
	return &Renderer{size: ClampSize(size)}
}

// ClampSize returns size limited to [MinSize, MaxSize]; zero or negative
// means DefaultSize.
func ClampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	default:
		return size
	}
}

// Size returns the pixel size of rendered images.
func (r *Renderer) Size() int {
	return r.size
}

// Render returns the symbol for payload, reusing the previous one when the
// payload is unchanged.
func (r *Renderer) Render(payload string) *Symbol {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.last != nil && r.last.Payload == payload {
		logging.LogRender(len(payload), r.size, true)
		return r.last
	}

	r.last = renderSymbol(payload, r.size)
	logging.LogRender(len(payload), r.size, false)
	return r.last
}

// Current returns the most recently rendered symbol, or nil.
func (r *Renderer) Current() *Symbol {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func renderSymbol(payload string, size int) *Symbol {
	sym := &Symbol{Payload: payload, Size: size}
	if payload == "" {
		return sym
	}

	q, err := qrcode.New(payload, Level)
	if err != nil {
		logging.Warn("Payload could not be encoded",
			zap.Int("payload_length", len(payload)),
			zap.Error(err),
		)
		sym.Err = err
		return sym
	}

	bitmap := q.Bitmap()
	sym.Modules = len(bitmap)
	sym.Raster = q.Image(size)
	// Dense symbols grow past size; both surfaces follow the raster
	sym.Size = sym.Raster.Bounds().Dx()
	sym.Vector = vectorFromBitmap(bitmap, sym.Size)
	sym.Terminal = q.ToSmallString(false)

	return sym
}

// vectorFromBitmap draws the module matrix as SVG. The viewBox is in module
// units and dark modules are merged into horizontal runs.
func vectorFromBitmap(bitmap [][]bool, size int) string {
	n := len(bitmap)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(size, size,
		fmt.Sprintf(`viewBox="0 0 %d %d"`, n, n),
		`shape-rendering="crispEdges"`,
	)
	canvas.Rect(0, 0, n, n, "fill:#ffffff")

	for y, row := range bitmap {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			canvas.Rect(start, y, x-start, 1, "fill:#000000")
		}
	}

	canvas.End()
	return buf.String()
}

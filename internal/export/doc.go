// Package export serializes rendered QR symbols to downloadable files.
//
// Two exports exist:
//   - PNG: the raster surface encoded as PNG, delivered as "qrcode.png"
//   - SVG: the vector surface as UTF-8 markup of type image/svg+xml,
//     delivered as "qrcode.svg"
//
// Delivery goes through a Sink, the single "trigger a file download"
// capability. DirSink writes into a directory, HTTPSink answers an HTTP
// request with an attachment and MemorySink records downloads in memory.
//
// Exporting a nil or empty symbol, or one missing the requested surface, is a
// silent no-op: nothing is delivered and no error is returned. Errors are only
// returned when a sink fails to deliver.
//
// # Usage Example
//
//	exporter := export.New(export.NewDirSink("./out"))
//	sym := render.New(256).Render(f.Payload())
//	if _, err := exporter.ExportPNG(ctx, sym); err != nil {
//	    return err
//	}
package export

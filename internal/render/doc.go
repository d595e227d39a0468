// Package render turns a payload string into a QR symbol with a raster, a
// vector and a terminal representation.
//
// Symbol encoding is delegated to github.com/skip2/go-qrcode at the highest
// error-correction level (H, roughly 30% of the symbol may be damaged and
// still decode). All three surfaces of a Symbol are produced from the same
// encoded matrix, so they always represent the same payload.
//
// A Renderer remembers the last payload it rendered. Rendering the same
// payload again returns the same Symbol; a different payload replaces every
// surface at once.
//
// An empty payload, or one the library refuses (too long for the largest
// symbol version at level H), yields an empty Symbol with no surfaces. The
// library error is kept in Symbol.Err for diagnostics; callers treat an empty
// Symbol as "nothing to show or export".
package render

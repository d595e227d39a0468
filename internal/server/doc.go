// Package server serves the QR form over HTTP.
//
// # Endpoints
//
//	GET /                 form page with a live preview
//	GET /api/payload      encoded payload as JSON
//	GET /qrcode.png       raster download (attachment)
//	GET /qrcode.svg       vector download (attachment)
//	GET /healthz          liveness probe, answers "OK"
//	GET /ws               websocket live preview
//
// The payload and download endpoints read the form from the query string
// (or a POSTed form body):
//
//	mode=wifi&ssid=Home&password=secret1&encryption=WPA
//
// Each request builds a fresh form. Downloads of an empty payload answer
// 204 No Content and deliver nothing.
//
// # Live Preview
//
// Every websocket connection owns one form and one renderer. The client
// sends field updates and mode switches:
//
//	{"op":"set","field":"ssid","value":"Home"}
//	{"op":"mode","value":"wifi"}
//
// After every update the server answers with the current state:
//
//	{"session":"…","mode":"wifi","payload":"WIFI:T:WPA;S:Home;P:;;","exportable":true,"svg":"<?xml …"}
//
// Values of inactive modes are kept for the lifetime of the connection.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{
//	    Host: "127.0.0.1",
//	    Port: 8080,
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.Start() // blocks until SIGINT/SIGTERM
package server

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/muurk/qrgen/internal/export"
	"github.com/muurk/qrgen/internal/form"
	"github.com/muurk/qrgen/internal/logging"
	"github.com/muurk/qrgen/internal/payload"
	"github.com/muurk/qrgen/internal/render"
)

// PayloadResponse is the body of /api/payload
type PayloadResponse struct {
	Mode       string `json:"mode"`
	Payload    string `json:"payload"`
	Exportable bool   `json:"exportable"`
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/payload", s.handlePayload).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/"+export.PNGFilename, s.handleDownload(export.FormatPNG)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/"+export.SVGFilename, s.handleDownload(export.FormatSVG)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := fmt.Fprintln(w, "OK"); err != nil {
		logging.Debug("Failed to write health response", zap.Error(err))
	}
}

// newForm returns a form carrying the server defaults
func (s *Server) newForm() *form.Form {
	f := form.New()
	f.SetMode(s.config.DefaultMode)
	f.SetEscapeWiFi(s.config.EscapeWiFi)
	return f
}

// formFromRequest builds a fresh form from query or POST form values.
// Missing fields stay empty; unknown modes fall back to text.
func (s *Server) formFromRequest(r *http.Request) (*form.Form, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	f := s.newForm()
	if m := r.Form.Get("mode"); m != "" {
		f.SetMode(payload.ParseMode(m))
	}
	for _, name := range form.Fields {
		if r.Form.Has(name) {
			f.Set(name, r.Form.Get(name))
		}
	}
	if v := r.Form.Get("escape"); v != "" {
		escape, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid escape value %q", v)
		}
		f.SetEscapeWiFi(escape)
	}
	return f, nil
}

func (s *Server) handlePayload(w http.ResponseWriter, r *http.Request) {
	f, err := s.formFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(PayloadResponse{
		Mode:       f.Mode().String(),
		Payload:    f.Payload(),
		Exportable: f.CanExport(),
	}); err != nil {
		logging.Error("Failed to write payload response", zap.Error(err))
	}
}

// handleDownload answers with the rendered symbol as an attachment, or
// 204 when there is nothing to export
func (s *Server) handleDownload(format export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := s.formFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		sym := render.New(s.config.Size).Render(f.Payload())
		exporter := export.New(export.HTTPSink{W: w})

		delivered, err := exporter.Export(r.Context(), format, sym)
		if err != nil {
			logging.Error("Download failed",
				zap.String("format", string(format)),
				zap.Error(err),
			)
			if !headerWritten(w) {
				http.Error(w, "failed to export QR code", http.StatusInternalServerError)
			}
			return
		}
		if !delivered {
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	f := s.newForm()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderIndex(w, f, s.config.Size); err != nil {
		logging.Error("Failed to render form page", zap.Error(err))
		if !headerWritten(w) {
			http.Error(w, "failed to render page", http.StatusInternalServerError)
		}
	}
}

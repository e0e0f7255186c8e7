// Package web serves the Wall Paint Visualizer HTTP API and its browser UI.
package web

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/fpang/paint-visualizer/internal/imagedata"
	"github.com/fpang/paint-visualizer/internal/session"
)

//go:embed static
var staticFS embed.FS

// Options configures a Server.
type Options struct {
	// Ingest bounds and downscales uploaded photos.
	Ingest imagedata.Options
	// BaseContext scopes background repaints. It must outlive individual
	// requests; canceling it aborts every in-flight repaint. Defaults to
	// context.Background().
	BaseContext context.Context
	// Picker opens a native file dialog. Defaults to a zenity dialog.
	Picker FilePicker
	// Model is reported by the health endpoint.
	Model string
}

// Server routes API requests to the session controllers held by a Manager.
type Server struct {
	sessions *session.Manager
	ingest   imagedata.Options
	baseCtx  context.Context
	picker   FilePicker
	model    string
}

// New creates a Server backed by mgr.
func New(mgr *session.Manager, opts Options) *Server {
	s := &Server{
		sessions: mgr,
		ingest:   opts.Ingest,
		baseCtx:  opts.BaseContext,
		picker:   opts.Picker,
		model:    opts.Model,
	}
	if s.baseCtx == nil {
		s.baseCtx = context.Background()
	}
	if s.picker == nil {
		s.picker = zenityPicker
	}
	return s
}

// Handler returns the full HTTP handler including middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/palette", s.handlePalette)

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)

	mux.HandleFunc("POST /api/sessions/{id}/image", s.handleUpload)
	mux.HandleFunc("POST /api/sessions/{id}/pick", s.handlePick)
	mux.HandleFunc("GET /api/sessions/{id}/image/{which}", s.handleSessionImage)
	mux.HandleFunc("PUT /api/sessions/{id}/color", s.handleSelectColor)
	mux.HandleFunc("POST /api/sessions/{id}/repaint", s.handleRepaint)
	mux.HandleFunc("POST /api/sessions/{id}/original", s.handleShowOriginal)

	mux.HandleFunc("GET /api/sessions/{id}/history", s.handleHistory)
	mux.HandleFunc("GET /api/sessions/{id}/history/export", s.handleExport)
	mux.HandleFunc("DELETE /api/sessions/{id}/history/{vid}", s.handleDeleteVersion)
	mux.HandleFunc("POST /api/sessions/{id}/history/{vid}/restore", s.handleRestoreVersion)
	mux.HandleFunc("GET /api/sessions/{id}/history/{vid}/{which}", s.handleVersionImage)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	fileServer := http.FileServer(http.FS(static))
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			httpError(w, http.StatusNotFound, "not found")
			return
		}
		fileServer.ServeHTTP(w, r)
	})

	return withLogging(withCORS(withSecurityHeaders(mux)))
}

// GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"model":    s.model,
		"sessions": s.sessions.Len(),
	})
}

// controller resolves the {id} path value, answering 404 for unknown sessions.
func (s *Server) controller(w http.ResponseWriter, r *http.Request) (string, *session.Controller, bool) {
	id := r.PathValue("id")
	ctrl, err := s.sessions.Get(id)
	if err != nil {
		httpError(w, http.StatusNotFound, "session not found")
		return id, nil, false
	}
	return id, ctrl, true
}

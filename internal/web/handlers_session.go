package web

import (
	"net/http"
	"strings"

	"github.com/fpang/paint-visualizer/internal/imagedata"
	"github.com/fpang/paint-visualizer/internal/palette"
	"github.com/fpang/paint-visualizer/internal/session"
	"github.com/rs/zerolog/log"
)

const maxJSONBody = 1 << 20

type imageInfo struct {
	URL      string `json:"url"`
	MIMEType string `json:"mimeType"`
	Bytes    int    `json:"bytes"`
}

type sessionResponse struct {
	SessionID    string               `json:"sessionId"`
	Status       session.Status       `json:"status"`
	Color        *palette.ColorOption `json:"color,omitempty"`
	ErrorMessage string               `json:"errorMessage,omitempty"`
	Source       *imageInfo           `json:"source,omitempty"`
	Result       *imageInfo           `json:"result,omitempty"`
	HistoryCount int                  `json:"historyCount"`
	CanRepaint   bool                 `json:"canRepaint"`
	Metadata     *imagedata.Metadata  `json:"metadata,omitempty"`
}

func newSessionResponse(id string, snap session.Snapshot) sessionResponse {
	resp := sessionResponse{
		SessionID:    id,
		Status:       snap.Status,
		Color:        snap.Color,
		ErrorMessage: snap.Error,
		HistoryCount: snap.HistoryCount,
		CanRepaint:   snap.CanRepaint(),
	}
	if !snap.Source.IsZero() {
		resp.Source = &imageInfo{
			URL:      "/api/sessions/" + id + "/image/source",
			MIMEType: snap.Source.MIMEType,
			Bytes:    len(snap.Source.Data),
		}
	}
	if !snap.Result.IsZero() {
		resp.Result = &imageInfo{
			URL:      "/api/sessions/" + id + "/image/result",
			MIMEType: snap.Result.MIMEType,
			Bytes:    len(snap.Result.Data),
		}
	}
	return resp
}

// GET /api/palette
func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"colors": palette.Presets(),
	})
}

// POST /api/sessions
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, ctrl := s.sessions.Create()
	respondJSON(w, http.StatusCreated, newSessionResponse(id, ctrl.Snapshot()))
}

// GET /api/sessions/{id}
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, newSessionResponse(id, ctrl.Snapshot()))
}

// DELETE /api/sessions/{id}
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(r.PathValue("id")) {
		httpError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/sessions/{id}/color
// Body: {"id": "2"} | {"name": "Navy Blue"} | {"hex": "#123456"}
func (s *Server) handleSelectColor(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}

	var req struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Hex  string `json:"hex"`
	}
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	var (
		color palette.ColorOption
		found bool
	)
	switch {
	case req.ID != "" && req.ID != palette.CustomID:
		color, found = palette.ByID(req.ID)
	case req.Name != "" && !strings.EqualFold(req.Name, palette.CustomName):
		color, found = palette.ByName(req.Name)
	case req.Hex != "":
		c, err := palette.Custom(req.Hex)
		if err != nil {
			httpError(w, http.StatusBadRequest, "hex must be a #RRGGBB colour")
			return
		}
		color, found = c, true
	default:
		httpError(w, http.StatusBadRequest, "one of id, name or hex is required")
		return
	}
	if !found {
		httpError(w, http.StatusBadRequest, "unknown color")
		return
	}

	ctrl.SelectColor(color)
	log.Debug().Str("session", id).Str("color", color.Name).Str("hex", color.Hex).Msg("Color selected")
	respondJSON(w, http.StatusOK, newSessionResponse(id, ctrl.Snapshot()))
}

// POST /api/sessions/{id}/repaint[?wait=1]
// Answers 202 once the repaint is dispatched, or 200 with the outcome when
// wait is set. 409 means no photo, no colour, or a repaint already running.
func (s *Server) handleRepaint(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}

	done, ok := ctrl.RequestRepaint(s.baseCtx)
	if !ok {
		httpError(w, http.StatusConflict, refusalReason(ctrl.Snapshot()))
		return
	}

	if r.URL.Query().Get("wait") == "" {
		respondJSON(w, http.StatusAccepted, newSessionResponse(id, ctrl.Snapshot()))
		return
	}

	select {
	case <-done:
		respondJSON(w, http.StatusOK, newSessionResponse(id, ctrl.Snapshot()))
	case <-r.Context().Done():
		// The repaint continues; the client can poll the session.
	}
}

func refusalReason(snap session.Snapshot) string {
	switch {
	case snap.Source.IsZero():
		return "upload a photo first"
	case snap.Color == nil:
		return "select a color first"
	case snap.Status == session.StatusProcessing:
		return "a repaint is already in progress"
	default:
		return "session is closed"
	}
}

// POST /api/sessions/{id}/original
func (s *Server) handleShowOriginal(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	ctrl.ShowOriginal()
	respondJSON(w, http.StatusOK, newSessionResponse(id, ctrl.Snapshot()))
}

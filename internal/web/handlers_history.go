package web

import (
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/fpang/paint-visualizer/internal/imagedata"
	"github.com/fpang/paint-visualizer/internal/session"
	"github.com/rs/zerolog/log"
)

type versionResponse struct {
	ID           string `json:"id"`
	ColorName    string `json:"colorName"`
	Timestamp    int64  `json:"timestamp"`
	OriginalURL  string `json:"originalUrl"`
	EditedURL    string `json:"editedUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

func newVersionResponse(sessionID string, v session.GeneratedVersion) versionResponse {
	base := "/api/sessions/" + sessionID + "/history/" + v.ID
	return versionResponse{
		ID:           v.ID,
		ColorName:    v.ColorName,
		Timestamp:    v.Timestamp,
		OriginalURL:  base + "/original",
		EditedURL:    base + "/edited",
		ThumbnailURL: base + "/thumbnail",
	}
}

// GET /api/sessions/{id}/history
// Versions are listed most recent first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	history := ctrl.History()
	versions := make([]versionResponse, 0, len(history))
	for _, v := range history {
		versions = append(versions, newVersionResponse(id, v))
	}
	respondJSON(w, http.StatusOK, map[string]any{"versions": versions})
}

// DELETE /api/sessions/{id}/history/{vid}
func (s *Server) handleDeleteVersion(w http.ResponseWriter, r *http.Request) {
	_, ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	if !ctrl.DeleteHistoryEntry(r.PathValue("vid")) {
		httpError(w, http.StatusNotFound, "version not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/sessions/{id}/history/{vid}/restore
func (s *Server) handleRestoreVersion(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	if !ctrl.RestoreFromHistory(r.PathValue("vid")) {
		httpError(w, http.StatusNotFound, "version not found")
		return
	}
	respondJSON(w, http.StatusOK, newSessionResponse(id, ctrl.Snapshot()))
}

// GET /api/sessions/{id}/history/{vid}/{which}[?download=1]
// which is "original", "edited" or "thumbnail".
func (s *Server) handleVersionImage(w http.ResponseWriter, r *http.Request) {
	_, ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	v, found := ctrl.Version(r.PathValue("vid"))
	if !found {
		httpError(w, http.StatusNotFound, "version not found")
		return
	}

	switch r.PathValue("which") {
	case "original":
		serveImage(w, r, v.OriginalImage, "room")
	case "edited":
		serveImage(w, r, v.EditedImage, "room-"+slug(v.ColorName))
	case "thumbnail":
		thumb, err := imagedata.Thumbnail(v.EditedImage, imagedata.DefaultThumbnailMaxDimension)
		if err != nil {
			// Formats the decoder cannot read are served full size.
			log.Debug().Err(err).Str("version", v.ID).Msg("Thumbnail failed, serving full image")
			thumb = v.EditedImage
		}
		serveImage(w, r, thumb, "thumb-"+slug(v.ColorName))
	default:
		httpError(w, http.StatusBadRequest, "image must be original, edited or thumbnail")
	}
}

// GET /api/sessions/{id}/history/export[?compression=deflate]
// Streams a ZIP of every stored version plus a manifest.json.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	history := ctrl.History()
	if len(history) == 0 {
		httpError(w, http.StatusNotFound, "no versions to export")
		return
	}

	method := MethodZstd
	if r.URL.Query().Get("compression") == "deflate" {
		method = MethodDeflate
	}

	filename := fmt.Sprintf("paint-history-%s.zip", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)

	if err := WriteHistoryZip(w, history, method); err != nil {
		// Headers are gone; the client sees a truncated archive.
		log.Error().Err(err).Str("session", id).Msg("History export failed")
		return
	}
	log.Info().Str("session", id).Int("versions", len(history)).Msg("History exported")
}

package web

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/fpang/paint-visualizer/internal/imagedata"
	"github.com/fpang/paint-visualizer/internal/session"
	"github.com/rs/zerolog/log"
)

// multipartOverhead is allowed on top of the image limit for form framing.
const multipartOverhead = 1 << 20

// POST /api/sessions/{id}/image
// Accepts multipart/form-data with a "file" field, or JSON with either
// {"dataUri": "data:image/...;base64,..."} or {"path": "/local/file.jpg"}.
// A malformed request leaves the session untouched; only a photo payload
// supersedes the current state.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}

	p, status, err := s.readPayload(w, r)
	if err != nil {
		log.Warn().Err(err).Str("session", id).Msg("Upload request rejected")
		httpError(w, status, uploadErrorMessage(err))
		return
	}
	s.ingestUpload(w, id, ctrl, p)
}

// POST /api/sessions/{id}/pick
// Opens a native file dialog on the server's desktop and ingests the choice.
func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}

	path, err := s.picker(r.Context())
	if errors.Is(err, ErrPickCanceled) {
		respondJSON(w, http.StatusOK, map[string]any{"canceled": true})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("File picker failed")
		httpError(w, http.StatusInternalServerError, "file picker failed")
		return
	}

	data, err := imagedata.ReadFile(path, s.ingest)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Picked file unreadable")
		httpError(w, http.StatusBadRequest, "could not read the selected file")
		return
	}
	log.Info().Str("session", id).Str("file", filepath.Base(path)).Msg("Photo picked via native dialog")
	s.ingestUpload(w, id, ctrl, payload{data: data, name: filepath.Base(path)})
}

// payload is a photo pulled out of a request, not yet validated as an image.
type payload struct {
	data []byte
	name string
}

func (s *Server) ingestUpload(w http.ResponseWriter, id string, ctrl *session.Controller, p payload) {
	ctrl.BeginUpload()
	img, meta, err := imagedata.Ingest(p.data, p.name, s.ingest)
	if err != nil {
		ctrl.FailUpload(uploadErrorMessage(err))
		log.Warn().Err(err).Str("session", id).Msg("Upload rejected")
		httpError(w, ingestStatus(err), uploadErrorMessage(err))
		return
	}
	ctrl.SetSourceImage(img)

	resp := newSessionResponse(id, ctrl.Snapshot())
	resp.Metadata = meta
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) readPayload(w http.ResponseWriter, r *http.Request) (payload, int, error) {
	limit := s.ingest.MaxBytes
	if limit <= 0 {
		limit = imagedata.DefaultMaxBytes
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
		file, header, err := r.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return payload{}, http.StatusRequestEntityTooLarge, imagedata.ErrTooLarge
			}
			return payload{}, http.StatusBadRequest, errors.New("missing file field")
		}
		defer file.Close()
		data, err := imagedata.ReadAll(file, s.ingest)
		if err != nil {
			return payload{}, http.StatusBadRequest, err
		}
		return payload{data: data, name: header.Filename}, http.StatusOK, nil

	case "application/json":
		// Base64 inflates by 4/3.
		r.Body = http.MaxBytesReader(w, r.Body, limit*4/3+multipartOverhead)
		var req struct {
			DataURI string `json:"dataUri"`
			Path    string `json:"path"`
		}
		if err := decodeBody(r, &req); err != nil {
			return payload{}, http.StatusBadRequest, errors.New("invalid request body")
		}
		switch {
		case req.DataURI != "":
			parsed, err := imagedata.ParseDataURI(req.DataURI)
			if err != nil {
				return payload{}, ingestStatus(err), err
			}
			return payload{data: parsed.Data, name: "upload" + parsed.Extension()}, http.StatusOK, nil
		case req.Path != "":
			if containsPathTraversal(req.Path) || !filepath.IsAbs(req.Path) {
				return payload{}, http.StatusBadRequest, errors.New("path must be absolute")
			}
			data, err := imagedata.ReadFile(req.Path, s.ingest)
			if err != nil {
				return payload{}, http.StatusBadRequest, errors.New("could not read file")
			}
			return payload{data: data, name: filepath.Base(req.Path)}, http.StatusOK, nil
		}
		return payload{}, http.StatusBadRequest, errors.New("one of dataUri or path is required")
	}
	return payload{}, http.StatusUnsupportedMediaType, errors.New("expected multipart/form-data or application/json")
}

func ingestStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, imagedata.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, imagedata.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, imagedata.ErrTooLarge):
		return "The image is too large."
	case errors.Is(err, imagedata.ErrUnsupportedType):
		return "Unsupported image type. Use JPEG, PNG, GIF, WebP or HEIC."
	case errors.Is(err, imagedata.ErrEmpty):
		return "The image is empty."
	case errors.Is(err, context.Canceled):
		return session.GenericUploadErrorMessage
	}
	return err.Error()
}

// GET /api/sessions/{id}/image/{which}[?download=1]
// which is "source" or "result".
func (s *Server) handleSessionImage(w http.ResponseWriter, r *http.Request) {
	_, ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	snap := ctrl.Snapshot()

	var (
		img  imagedata.Image
		name string
	)
	switch r.PathValue("which") {
	case "source":
		img, name = snap.Source, "room"
	case "result":
		img, name = snap.Result, "room-repainted"
		if snap.Color != nil {
			name += "-" + slug(snap.Color.Name)
		}
	default:
		httpError(w, http.StatusBadRequest, "image must be source or result")
		return
	}
	if img.IsZero() {
		httpError(w, http.StatusNotFound, "no image")
		return
	}
	serveImage(w, r, img, name)
}

// serveImage writes img, as an attachment when ?download is set.
func serveImage(w http.ResponseWriter, r *http.Request, img imagedata.Image, name string) {
	w.Header().Set("Content-Type", img.MIMEType)
	w.Header().Set("Cache-Control", "no-store")
	if r.URL.Query().Get("download") != "" {
		filename := strings.TrimSpace(name) + img.Extension()
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.Data); err != nil {
		log.Debug().Err(err).Msg("Client went away while serving image")
	}
}

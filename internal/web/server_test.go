package web

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fpang/paint-visualizer/internal/imagedata"
	"github.com/fpang/paint-visualizer/internal/session"
)

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type testEnv struct {
	t       *testing.T
	handler http.Handler
	mgr     *session.Manager
	calls   atomic.Int32
	edited  []byte
	// gate, when set before a repaint starts, holds the call until closed.
	gate chan struct{}
}

// newTestEnv builds a server whose repaints return a blue PNG, or fail with
// failWith when it is non-empty.
func newTestEnv(t *testing.T, failWith string, opts ...func(*Options)) *testEnv {
	t.Helper()
	env := &testEnv{t: t, edited: pngBytes(t, color.RGBA{0, 0, 128, 255})}
	svc := session.RepainterFunc(func(ctx context.Context, img imagedata.Image, name, hex string) (imagedata.Image, error) {
		env.calls.Add(1)
		if env.gate != nil {
			select {
			case <-env.gate:
			case <-ctx.Done():
				return imagedata.Image{}, ctx.Err()
			}
		}
		if failWith != "" {
			return imagedata.Image{}, errors.New(failWith)
		}
		return imagedata.Image{MIMEType: "image/png", Data: env.edited}, nil
	})
	env.mgr = session.NewManager(svc, session.ManagerConfig{})
	o := Options{Model: "test-model"}
	for _, fn := range opts {
		fn(&o)
	}
	env.handler = New(env.mgr, o).Handler()
	return env
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var r *http.Request
	switch b := body.(type) {
	case nil:
		r = httptest.NewRequest(method, path, nil)
	case *http.Request:
		r = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			e.t.Fatal(err)
		}
		r = httptest.NewRequest(method, path, bytes.NewReader(data))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

func (e *testEnv) createSession() string {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		e.t.Fatalf("create session: status %d", w.Code)
	}
	return decode[sessionResponse](e.t, w).SessionID
}

func (e *testEnv) upload(id string, data []byte, filename string) *httptest.ResponseRecorder {
	e.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		e.t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/image", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(http.MethodPost, "", r)
}

// ready uploads a photo and selects Navy Blue.
func (e *testEnv) ready(id string) {
	e.t.Helper()
	if w := e.upload(id, pngBytes(e.t, color.White), "room.png"); w.Code != http.StatusOK {
		e.t.Fatalf("upload: status %d: %s", w.Code, w.Body)
	}
	if w := e.do(http.MethodPut, "/api/sessions/"+id+"/color", map[string]string{"name": "Navy Blue"}); w.Code != http.StatusOK {
		e.t.Fatalf("select color: status %d: %s", w.Code, w.Body)
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestPalette(t *testing.T) {
	env := newTestEnv(t, "")
	w := env.do(http.MethodGet, "/api/palette", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	type paletteResp struct {
		Colors []struct{ ID, Name, Hex, Description string }
	}
	resp := decode[paletteResp](t, w)
	if len(resp.Colors) != 16 {
		t.Fatalf("expected 16 presets, got %d", len(resp.Colors))
	}
	if resp.Colors[1].Name != "Navy Blue" || resp.Colors[1].Hex != "#000080" {
		t.Errorf("unexpected second preset %+v", resp.Colors[1])
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "")
	env.createSession()
	got := decode[map[string]any](t, env.do(http.MethodGet, "/api/health", nil))
	if got["status"] != "ok" || got["model"] != "test-model" || got["sessions"] != float64(1) {
		t.Errorf("unexpected health %v", got)
	}
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.createSession()

	w := env.do(http.MethodGet, "/api/sessions/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}
	s := decode[map[string]any](t, w)
	if s["status"] != "IDLE" || s["canRepaint"] != false {
		t.Errorf("unexpected initial session %v", s)
	}

	if w := env.do(http.MethodDelete, "/api/sessions/"+id, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: status %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/api/sessions/"+id, nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d", w.Code)
	}
	if w := env.do(http.MethodDelete, "/api/sessions/"+id, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d", w.Code)
	}
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.createSession()
	photo := pngBytes(t, color.White)

	w := env.upload(id, photo, "room.png")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	s := decode[sessionResponse](t, w)
	if s.Status != session.StatusIdle || s.Source == nil || s.Source.MIMEType != "image/png" {
		t.Errorf("unexpected session after upload %+v", s)
	}

	img := env.do(http.MethodGet, s.Source.URL, nil)
	if img.Code != http.StatusOK || img.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("source image: status %d type %q", img.Code, img.Header().Get("Content-Type"))
	}
	if !bytes.Equal(img.Body.Bytes(), photo) {
		t.Error("served source differs from upload")
	}
}

// exifJPEG returns a w x h JPEG whose EXIF block names the camera make.
func exifJPEG(t *testing.T, w, h int, cameraMake string) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatal(err)
	}
	value := append([]byte(cameraMake), 0)
	tiff := []byte{'I', 'I', 0x2a, 0x00, 0x08, 0x00, 0x00, 0x00, 0x01, 0x00, 0x0f, 0x01, 0x02, 0x00}
	tiff = binary.LittleEndian.AppendUint32(tiff, uint32(len(value)))
	tiff = binary.LittleEndian.AppendUint32(tiff, 26)
	tiff = binary.LittleEndian.AppendUint32(tiff, 0)
	tiff = append(tiff, value...)

	segment := append([]byte("Exif\x00\x00"), tiff...)
	out := []byte{0xff, 0xd8, 0xff, 0xe1}
	out = binary.BigEndian.AppendUint16(out, uint16(len(segment)+2))
	out = append(out, segment...)
	return append(out, buf.Bytes()[2:]...)
}

func TestUploadMetadata(t *testing.T) {
	env := newTestEnv(t, "", func(o *Options) { o.Ingest.MaxDimension = 32 })
	id := env.createSession()

	w := env.upload(id, exifJPEG(t, 64, 48, "Canon"), "room.jpg")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	s := decode[sessionResponse](t, w)
	if s.Metadata == nil || s.Metadata.CameraMake != "Canon" {
		t.Errorf("metadata = %+v, want camera make Canon", s.Metadata)
	}

	w = env.upload(id, pngBytes(t, color.White), "room.png")
	if strings.Contains(w.Body.String(), `"metadata"`) {
		t.Errorf("photo without EXIF reported metadata: %s", w.Body)
	}
}

func TestUploadDataURI(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.createSession()
	uri := imagedata.Image{MIMEType: "image/png", Data: pngBytes(t, color.White)}.DataURI()

	w := env.do(http.MethodPost, "/api/sessions/"+id+"/image", map[string]string{"dataUri": uri})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	if s := decode[sessionResponse](t, w); s.Source == nil {
		t.Error("expected a source image")
	}
}

func TestUploadPath(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.createSession()
	path := filepath.Join(t.TempDir(), "room.png")
	if err := os.WriteFile(path, pngBytes(t, color.White), 0o600); err != nil {
		t.Fatal(err)
	}

	if w := env.do(http.MethodPost, "/api/sessions/"+id+"/image", map[string]string{"path": path}); w.Code != http.StatusOK {
		t.Errorf("absolute path: status %d: %s", w.Code, w.Body)
	}
	for _, bad := range []string{"room.png", "/tmp/../etc/passwd"} {
		if w := env.do(http.MethodPost, "/api/sessions/"+id+"/image", map[string]string{"path": bad}); w.Code != http.StatusBadRequest {
			t.Errorf("path %q: status %d, want 400", bad, w.Code)
		}
	}
}

func TestUploadRejected(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		maxBytes   int64
		wantStatus int
	}{
		{"not an image", []byte("just some text, not a photo"), 0, http.StatusUnsupportedMediaType},
		{"too large", bytes.Repeat([]byte{0xff}, 2048), 1024, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "", func(o *Options) { o.Ingest.MaxBytes = tt.maxBytes })
			id := env.createSession()

			w := env.upload(id, tt.data, "room.png")
			if w.Code != tt.wantStatus {
				t.Fatalf("status %d, want %d: %s", w.Code, tt.wantStatus, w.Body)
			}
			s := decode[sessionResponse](t, env.do(http.MethodGet, "/api/sessions/"+id, nil))
			if s.Status != session.StatusError || s.ErrorMessage == "" {
				t.Errorf("expected ERROR status with message, got %+v", s)
			}
		})
	}
}

func TestMalformedUploadKeepsRepaint(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
	}{
		{"wrong content type", "text/plain", "x", http.StatusUnsupportedMediaType},
		{"invalid json", "application/json", "{", http.StatusBadRequest},
		{"json without image", "application/json", "{}", http.StatusBadRequest},
		{"relative path", "application/json", `{"path":"room.png"}`, http.StatusBadRequest},
		{"multipart without file", "multipart/form-data; boundary=b", "--b--\r\n", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "")
			env.gate = make(chan struct{})
			id := env.createSession()
			env.ready(id)

			if w := env.do(http.MethodPost, "/api/sessions/"+id+"/repaint", nil); w.Code != http.StatusAccepted {
				t.Fatalf("repaint: status %d", w.Code)
			}

			r := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/image", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", tt.contentType)
			if w := env.do(http.MethodPost, "", r); w.Code != tt.wantStatus {
				t.Fatalf("upload: status %d, want %d", w.Code, tt.wantStatus)
			}

			s := decode[sessionResponse](t, env.do(http.MethodGet, "/api/sessions/"+id, nil))
			if s.Status != session.StatusProcessing || s.ErrorMessage != "" {
				t.Fatalf("session changed by rejected upload: %+v", s)
			}

			close(env.gate)
			deadline := time.Now().Add(2 * time.Second)
			for s.Status != session.StatusSuccess {
				if time.Now().After(deadline) {
					t.Fatalf("repaint did not finish, last status %v", s.Status)
				}
				time.Sleep(10 * time.Millisecond)
				s = decode[sessionResponse](t, env.do(http.MethodGet, "/api/sessions/"+id, nil))
			}
			if s.Result == nil || s.HistoryCount != 1 {
				t.Errorf("repaint result lost: %+v", s)
			}
		})
	}
}

func TestSelectColor(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantName   string
		wantHex    string
	}{
		{"by id", map[string]string{"id": "2"}, http.StatusOK, "Navy Blue", "#000080"},
		{"by name", map[string]string{"name": "teal ocean"}, http.StatusOK, "Teal Ocean", "#008080"},
		{"custom hex", map[string]string{"hex": "#123456"}, http.StatusOK, "Custom Color", "#123456"},
		{"unknown id", map[string]string{"id": "99"}, http.StatusBadRequest, "", ""},
		{"bad hex", map[string]string{"hex": "#12"}, http.StatusBadRequest, "", ""},
		{"empty", map[string]string{}, http.StatusBadRequest, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "")
			id := env.createSession()
			w := env.do(http.MethodPut, "/api/sessions/"+id+"/color", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status %d, want %d: %s", w.Code, tt.wantStatus, w.Body)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			s := decode[sessionResponse](t, w)
			if s.Color == nil || s.Color.Name != tt.wantName || s.Color.Hex != tt.wantHex {
				t.Errorf("unexpected color %+v", s.Color)
			}
		})
	}
}

func TestRepaintRefused(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.createSession()

	w := env.do(http.MethodPost, "/api/sessions/"+id+"/repaint", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status %d, want 409", w.Code)
	}
	if msg := decode[map[string]string](t, w)["error"]; msg != "upload a photo first" {
		t.Errorf("error = %q", msg)
	}

	env.upload(id, pngBytes(t, color.White), "room.png")
	w = env.do(http.MethodPost, "/api/sessions/"+id+"/repaint", nil)
	if msg := decode[map[string]string](t, w)["error"]; w.Code != http.StatusConflict || msg != "select a color first" {
		t.Errorf("status %d error %q", w.Code, msg)
	}
	if n := env.calls.Load(); n != 0 {
		t.Errorf("expected no repaint calls, got %d", n)
	}
}

func TestRepaintWait(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.createSession()
	env.ready(id)

	w := env.do(http.MethodPost, "/api/sessions/"+id+"/repaint?wait=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	s := decode[sessionResponse](t, w)
	if s.Status != session.StatusSuccess || s.Result == nil || s.HistoryCount != 1 {
		t.Fatalf("unexpected session %+v", s)
	}

	img := env.do(http.MethodGet, s.Result.URL+"?download=1", nil)
	if !bytes.Equal(img.Body.Bytes(), env.edited) {
		t.Error("served result differs from repaint output")
	}
	if cd := img.Header().Get("Content-Disposition"); !strings.Contains(cd, "room-repainted-navy-blue.png") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestRepaintAsync(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.createSession()
	env.ready(id)

	w := env.do(http.MethodPost, "/api/sessions/"+id+"/repaint", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status %d, want 202", w.Code)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		s := decode[sessionResponse](t, env.do(http.MethodGet, "/api/sessions/"+id, nil))
		if s.Status == session.StatusSuccess {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("repaint did not finish, last status %v", s.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRepaintError(t *testing.T) {
	env := newTestEnv(t, "quota exceeded")
	id := env.createSession()
	env.ready(id)

	s := decode[sessionResponse](t, env.do(http.MethodPost, "/api/sessions/"+id+"/repaint?wait=1", nil))
	if s.Status != session.StatusError || s.ErrorMessage != "quota exceeded" || s.HistoryCount != 0 {
		t.Errorf("unexpected session %+v", s)
	}
	if w := env.do(http.MethodGet, "/api/sessions/"+id+"/image/result", nil); w.Code != http.StatusNotFound {
		t.Errorf("result image: status %d, want 404", w.Code)
	}
}

func TestShowOriginal(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.createSession()
	env.ready(id)
	env.do(http.MethodPost, "/api/sessions/"+id+"/repaint?wait=1", nil)

	s := decode[sessionResponse](t, env.do(http.MethodPost, "/api/sessions/"+id+"/original", nil))
	if s.Result != nil || s.Source == nil || s.Status != session.StatusSuccess {
		t.Errorf("unexpected session %+v", s)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.createSession()
	env.ready(id)
	env.do(http.MethodPost, "/api/sessions/"+id+"/repaint?wait=1", nil)
	env.do(http.MethodPut, "/api/sessions/"+id+"/color", map[string]string{"hex": "#123456"})
	env.do(http.MethodPost, "/api/sessions/"+id+"/repaint?wait=1", nil)

	type historyResp struct{ Versions []versionResponse }
	h := decode[historyResp](t, env.do(http.MethodGet, "/api/sessions/"+id+"/history", nil))
	if len(h.Versions) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(h.Versions))
	}
	if h.Versions[0].ColorName != "Custom Color" || h.Versions[1].ColorName != "Navy Blue" {
		t.Errorf("expected most recent first, got %s, %s", h.Versions[0].ColorName, h.Versions[1].ColorName)
	}

	thumb := env.do(http.MethodGet, h.Versions[0].ThumbnailURL, nil)
	if thumb.Code != http.StatusOK || thumb.Header().Get("Content-Type") != "image/jpeg" {
		t.Errorf("thumbnail: status %d type %q", thumb.Code, thumb.Header().Get("Content-Type"))
	}
	if w := env.do(http.MethodGet, h.Versions[0].EditedURL, nil); !bytes.Equal(w.Body.Bytes(), env.edited) {
		t.Error("edited image mismatch")
	}
	if w := env.do(http.MethodGet, "/api/sessions/"+id+"/history/"+h.Versions[0].ID+"/bogus", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad which: status %d", w.Code)
	}

	// Restore the older version.
	w := env.do(http.MethodPost, "/api/sessions/"+id+"/history/"+h.Versions[1].ID+"/restore", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("restore: status %d", w.Code)
	}
	if s := decode[sessionResponse](t, w); s.Status != session.StatusSuccess || s.Result == nil {
		t.Errorf("unexpected session after restore %+v", s)
	}
	if w := env.do(http.MethodPost, "/api/sessions/"+id+"/history/missing/restore", nil); w.Code != http.StatusNotFound {
		t.Errorf("restore missing: status %d", w.Code)
	}

	if w := env.do(http.MethodDelete, "/api/sessions/"+id+"/history/"+h.Versions[0].ID, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: status %d", w.Code)
	}
	if w := env.do(http.MethodDelete, "/api/sessions/"+id+"/history/"+h.Versions[0].ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d", w.Code)
	}
	h = decode[historyResp](t, env.do(http.MethodGet, "/api/sessions/"+id+"/history", nil))
	if len(h.Versions) != 1 || h.Versions[0].ColorName != "Navy Blue" {
		t.Errorf("unexpected history after delete %+v", h.Versions)
	}
}

func TestExportEmpty(t *testing.T) {
	env := newTestEnv(t, "")
	id := env.createSession()
	if w := env.do(http.MethodGet, "/api/sessions/"+id+"/history/export", nil); w.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", w.Code)
	}
}

func TestPick(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.png")
	if err := os.WriteFile(path, pngBytes(t, color.White), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		picker     FilePicker
		wantStatus int
		wantSource bool
	}{
		{"picked", func(context.Context) (string, error) { return path, nil }, http.StatusOK, true},
		{"canceled", func(context.Context) (string, error) { return "", ErrPickCanceled }, http.StatusOK, false},
		{"dialog failure", func(context.Context) (string, error) { return "", errors.New("no display") }, http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "", func(o *Options) { o.Picker = tt.picker })
			id := env.createSession()
			w := env.do(http.MethodPost, "/api/sessions/"+id+"/pick", nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("status %d, want %d", w.Code, tt.wantStatus)
			}
			s := decode[sessionResponse](t, env.do(http.MethodGet, "/api/sessions/"+id, nil))
			if (s.Source != nil) != tt.wantSource {
				t.Errorf("source present = %v, want %v", s.Source != nil, tt.wantSource)
			}
		})
	}
}

func TestUnknownSession(t *testing.T) {
	env := newTestEnv(t, "")
	for _, path := range []string{
		"/api/sessions/nope",
		"/api/sessions/nope/history",
		"/api/sessions/nope/image/source",
	} {
		if w := env.do(http.MethodGet, path, nil); w.Code != http.StatusNotFound {
			t.Errorf("GET %s: status %d, want 404", path, w.Code)
		}
	}
}

func TestMiddleware(t *testing.T) {
	env := newTestEnv(t, "")

	r := httptest.NewRequest(http.MethodOptions, "/api/palette", nil)
	r.Header.Set("Origin", "http://localhost:5173")
	w := env.do(http.MethodOptions, "", r)
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight: status %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/palette", nil)
	r.Header.Set("Origin", "https://evil.example")
	w = env.do(http.MethodGet, "", r)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
	if w.Header().Get("X-Frame-Options") != "DENY" || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
}

func TestStaticUI(t *testing.T) {
	env := newTestEnv(t, "")
	w := env.do(http.MethodGet, "/", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Wall Paint Visualizer") {
		t.Errorf("index: status %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/api/unknown", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown API route: status %d", w.Code)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Navy Blue":     "navy-blue",
		"Custom Color":  "custom-color",
		"  Deep  Plum ": "deep-plum",
		"Émeraude!":     "meraude",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}

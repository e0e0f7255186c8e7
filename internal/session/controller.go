package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fpang/paint-visualizer/internal/imagedata"
	"github.com/fpang/paint-visualizer/internal/metrics"
	"github.com/fpang/paint-visualizer/internal/palette"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Controller is the repaint session controller. It is safe for concurrent use.
type Controller struct {
	svc          Repainter
	id           string
	historyLimit int
	newID        func() string
	now          func() time.Time

	mu      sync.Mutex
	status  Status
	source  imagedata.Image
	color   *palette.ColorOption
	result  imagedata.Image
	errMsg  string
	history []GeneratedVersion
	token   uint64
	cancel  context.CancelFunc
	closed  bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithSessionID tags log lines and metrics with the owning session's id.
func WithSessionID(id string) Option {
	return func(c *Controller) { c.id = id }
}

// WithHistoryLimit keeps at most n versions, dropping the oldest. Zero or a
// negative value keeps everything.
func WithHistoryLimit(n int) Option {
	return func(c *Controller) { c.historyLimit = n }
}

// WithIDGenerator replaces the generator of GeneratedVersion ids.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

// WithClock replaces the clock used for GeneratedVersion timestamps.
func WithClock(fn func() time.Time) Option {
	return func(c *Controller) { c.now = fn }
}

// NewController creates an idle controller that repaints through svc.
func NewController(svc Repainter, opts ...Option) *Controller {
	c := &Controller{
		svc:    svc,
		newID:  uuid.NewString,
		now:    time.Now,
		status: StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BeginUpload marks the session as ingesting a new photo. Any in-flight repaint
// is superseded.
func (c *Controller) BeginUpload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
	c.status = StatusUploading
}

// FailUpload ends an upload that could not be ingested. The previous photo and
// result are kept.
func (c *Controller) FailUpload(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = GenericUploadErrorMessage
	}
	c.status = StatusError
	c.errMsg = msg
	log.Warn().Str("session", c.id).Str("error", msg).Msg("Image upload failed")
}

// SetSourceImage replaces the room photo, clears the result and any error, and
// returns the session to Idle. Any in-flight repaint is superseded.
func (c *Controller) SetSourceImage(img imagedata.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
	c.source = img
	c.result = imagedata.Image{}
	c.errMsg = ""
	c.status = StatusIdle

	log.Debug().
		Str("session", c.id).
		Str("mime_type", img.MIMEType).
		Int("bytes", len(img.Data)).
		Msg("Source image set")
}

// SelectColor replaces the selected paint colour. A repaint already in flight
// keeps the colour it was started with.
func (c *Controller) SelectColor(opt palette.ColorOption) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.color = &opt
}

// ShowOriginal hides the current result so the original photo is displayed.
// The status is unchanged.
func (c *Controller) ShowOriginal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = imagedata.Image{}
}

// RequestRepaint starts a repaint in the background. It returns false, without
// touching state or calling the Repainter, when no photo or colour is set or a
// repaint is already in progress. The returned channel is closed once the
// outcome has been applied (or dropped as stale).
//
// The call runs under ctx; it must outlive the caller's request scope.
func (c *Controller) RequestRepaint(ctx context.Context) (<-chan struct{}, bool) {
	j, ok := c.begin(ctx)
	if !ok {
		return nil, false
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.run(j)
	}()
	return done, true
}

// Repaint is the blocking form of RequestRepaint. It returns false when the
// request was refused; the outcome of an accepted request is in Snapshot.
func (c *Controller) Repaint(ctx context.Context) bool {
	j, ok := c.begin(ctx)
	if !ok {
		return false
	}
	c.run(j)
	return true
}

// DeleteHistoryEntry removes the version with the given id. It reports whether
// an entry was removed.
func (c *Controller) DeleteHistoryEntry(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, v := range c.history {
		if v.ID == id {
			c.history = append(c.history[:i:i], c.history[i+1:]...)
			return true
		}
	}
	return false
}

// RestoreFromHistory shows a stored version: its original becomes the source,
// its edit the current result, and the status Success. It reports whether the
// id was found; unknown ids change nothing.
func (c *Controller) RestoreFromHistory(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.history {
		if v.ID != id {
			continue
		}
		c.supersedeLocked()
		c.source = v.OriginalImage
		c.result = v.EditedImage
		c.errMsg = ""
		c.status = StatusSuccess
		return true
	}
	return false
}

// History returns the stored versions, most recent first.
func (c *Controller) History() []GeneratedVersion {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]GeneratedVersion, len(c.history))
	copy(out, c.history)
	return out
}

// Version looks up a stored version by id.
func (c *Controller) Version(id string) (GeneratedVersion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.history {
		if v.ID == id {
			return v, true
		}
	}
	return GeneratedVersion{}, false
}

// Snapshot returns a consistent copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		Status:       c.status,
		Source:       c.source,
		Result:       c.result,
		Error:        c.errMsg,
		HistoryCount: len(c.history),
	}
	if c.color != nil {
		color := *c.color
		s.Color = &color
	}
	return s
}

// Close cancels any in-flight repaint and drops its result. Later requests are
// refused.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
	c.closed = true
}

// job is one accepted repaint request, captured at dispatch time.
type job struct {
	ctx    context.Context
	cancel context.CancelFunc
	token  uint64
	source imagedata.Image
	color  palette.ColorOption
}

func (c *Controller) begin(ctx context.Context) (job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.source.IsZero() || c.color == nil || c.status == StatusProcessing {
		log.Debug().
			Str("session", c.id).
			Str("status", c.status.String()).
			Bool("has_source", !c.source.IsZero()).
			Bool("has_color", c.color != nil).
			Msg("Repaint request refused")
		return job{}, false
	}

	c.token++
	jctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.status = StatusProcessing
	c.errMsg = ""

	log.Info().
		Str("session", c.id).
		Uint64("token", c.token).
		Str("color", c.color.Name).
		Str("hex", c.color.Hex).
		Msg("Repaint started")

	return job{
		ctx:    jctx,
		cancel: cancel,
		token:  c.token,
		source: c.source,
		color:  *c.color,
	}, true
}

func (c *Controller) run(j job) {
	defer j.cancel()

	start := time.Now()
	result, err := c.svc.Repaint(j.ctx, j.source, j.color.Name, j.color.Hex)
	elapsed := time.Since(start)

	c.mu.Lock()
	defer c.mu.Unlock()

	if j.token != c.token || c.closed {
		log.Info().
			Str("session", c.id).
			Uint64("token", j.token).
			Uint64("current_token", c.token).
			Dur("duration", elapsed).
			Msg("Dropping result of superseded repaint")
		return
	}
	c.cancel = nil

	if err == nil && result.IsZero() {
		err = errEmptyResult
	}
	if err != nil {
		c.errMsg = errorMessage(err)
		c.status = StatusError
		c.recordMetrics("error", elapsed)
		log.Error().
			Err(err).
			Str("session", c.id).
			Dur("duration", elapsed).
			Msg("Repaint failed")
		return
	}

	c.result = result
	v := GeneratedVersion{
		ID:            c.newID(),
		OriginalImage: j.source,
		EditedImage:   result,
		ColorName:     j.color.Name,
		Timestamp:     c.now().UnixMilli(),
	}
	c.history = append([]GeneratedVersion{v}, c.history...)
	if c.historyLimit > 0 && len(c.history) > c.historyLimit {
		c.history = c.history[:c.historyLimit]
	}
	c.status = StatusSuccess
	c.recordMetrics("success", elapsed)

	log.Info().
		Str("session", c.id).
		Str("version", v.ID).
		Int("output_bytes", len(result.Data)).
		Dur("duration", elapsed).
		Msg("Repaint complete")
}

// supersedeLocked invalidates and cancels the in-flight repaint, if any.
func (c *Controller) supersedeLocked() {
	c.token++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) recordMetrics(result string, elapsed time.Duration) {
	metrics.New(metrics.Namespace).
		Dimension("Result", result).
		Duration("RepaintLatencyMs", elapsed).
		Count("RepaintResult").
		Property("sessionId", c.id).
		Flush()
}

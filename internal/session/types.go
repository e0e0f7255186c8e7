package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/fpang/paint-visualizer/internal/imagedata"
	"github.com/fpang/paint-visualizer/internal/palette"
)

// GenericErrorMessage is shown when a repaint fails without a usable message.
const GenericErrorMessage = "Failed to repaint the wall. Please try again."

// GenericUploadErrorMessage is shown when ingestion fails without a usable message.
const GenericUploadErrorMessage = "Failed to load the image. Please try again."

// ErrNotFound is returned by Manager lookups for unknown or evicted sessions.
var ErrNotFound = errors.New("session not found")

// Repainter renders a room photo repainted in the given colour. Implementations
// return an error whose message can be shown to the user.
type Repainter interface {
	Repaint(ctx context.Context, img imagedata.Image, colorName, colorHex string) (imagedata.Image, error)
}

// RepainterFunc adapts a function to the Repainter interface.
type RepainterFunc func(ctx context.Context, img imagedata.Image, colorName, colorHex string) (imagedata.Image, error)

// Repaint calls f.
func (f RepainterFunc) Repaint(ctx context.Context, img imagedata.Image, colorName, colorHex string) (imagedata.Image, error) {
	return f(ctx, img, colorName, colorHex)
}

// Status is the session's position in the repaint lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusUploading
	StatusProcessing
	StatusSuccess
	StatusError
)

var statusNames = [...]string{"IDLE", "UPLOADING", "PROCESSING", "SUCCESS", "ERROR"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name as produced by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// GeneratedVersion is one successful repaint. It is never modified after creation.
type GeneratedVersion struct {
	ID            string
	OriginalImage imagedata.Image
	EditedImage   imagedata.Image
	ColorName     string
	// Timestamp is the creation time in Unix milliseconds.
	Timestamp int64
}

// Snapshot is a consistent copy of a controller's state.
type Snapshot struct {
	Status Status
	Source imagedata.Image
	Color  *palette.ColorOption
	Result imagedata.Image
	Error  string
	// HistoryCount is the number of stored versions.
	HistoryCount int
}

// CanRepaint reports whether RequestRepaint would be accepted in this state.
func (s Snapshot) CanRepaint() bool {
	return !s.Source.IsZero() && s.Color != nil && s.Status != StatusProcessing
}

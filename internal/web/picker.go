package web

import (
	"context"

	"github.com/fpang/paint-visualizer/internal/picker"
)

// ErrPickCanceled is returned by a FilePicker when the user closes the dialog.
var ErrPickCanceled = picker.ErrCanceled

// FilePicker asks the user for a photo on the machine running the server and
// returns its path.
type FilePicker func(ctx context.Context) (string, error)

var zenityPicker FilePicker = picker.SelectImage

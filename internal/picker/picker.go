// Package picker opens the native file dialog used to choose a room photo.
package picker

import (
	"context"
	"errors"

	"github.com/ncruces/zenity"
)

// ErrCanceled is returned when the user closes the dialog without choosing.
var ErrCanceled = errors.New("file selection canceled")

// ImagePatterns is the dialog filter for supported photos.
var ImagePatterns = []string{"*.jpg", "*.jpeg", "*.png", "*.gif", "*.webp", "*.heic", "*.heif"}

// SelectImage shows a native open-file dialog on the local desktop and returns
// the chosen path.
func SelectImage(ctx context.Context) (string, error) {
	path, err := zenity.SelectFile(
		zenity.Context(ctx),
		zenity.Title("Select a photo of your room"),
		zenity.FileFilters{
			{Name: "Images", Patterns: ImagePatterns, CaseFold: true},
		},
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", ErrCanceled
	}
	return path, err
}

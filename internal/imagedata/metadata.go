package imagedata

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
)

// ErrNoMetadata is returned when a photo decodes but carries none of the
// fields in Metadata.
var ErrNoMetadata = errors.New("no EXIF metadata")

// Metadata is the EXIF summary shown next to an uploaded room photo.
type Metadata struct {
	CameraMake  string    `json:"cameraMake,omitempty"`
	CameraModel string    `json:"cameraModel,omitempty"`
	DateTaken   time.Time `json:"dateTaken,omitzero"`
	HasGPS      bool      `json:"hasGps"`
}

// ExtractMetadata reads EXIF data from JPEG, HEIC and TIFF-based images.
// Images without EXIF (most PNGs, screenshots) return an error; callers treat
// metadata as optional.
func ExtractMetadata(img Image) (*Metadata, error) {
	exifData, err := imagemeta.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode EXIF metadata: %w", err)
	}

	meta := &Metadata{
		CameraMake:  exifString(exifData.Make),
		CameraModel: exifString(exifData.Model),
	}

	// Priority: DateTimeOriginal > CreateDate > ModifyDate
	switch {
	case !exifData.DateTimeOriginal().IsZero():
		meta.DateTaken = exifData.DateTimeOriginal()
	case !exifData.CreateDate().IsZero():
		meta.DateTaken = exifData.CreateDate()
	case !exifData.ModifyDate().IsZero():
		meta.DateTaken = exifData.ModifyDate()
	}

	gps := exifData.GPS
	meta.HasGPS = gps.Latitude() != 0 || gps.Longitude() != 0

	if *meta == (Metadata{}) {
		return nil, ErrNoMetadata
	}
	return meta, nil
}

// EXIF ASCII values are NUL-terminated and often space-padded.
func exifString(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

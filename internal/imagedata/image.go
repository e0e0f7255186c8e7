// Package imagedata converts user-supplied photos into the in-memory image
// handle that the repaint session stores, displays and sends to Gemini.
package imagedata

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedType is returned for files that are not a supported image format.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrTooLarge is returned when an upload exceeds the configured byte limit.
	ErrTooLarge = errors.New("image too large")
	// ErrEmpty is returned for zero-length input.
	ErrEmpty = errors.New("image is empty")
)

// SupportedImageExtensions maps accepted file extensions to their MIME type.
var SupportedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// Image is an embedded-image handle: the raw bytes plus their MIME type.
// It renders as a data URI for display and is passed as inline data to the
// repaint service.
type Image struct {
	MIMEType string
	Data     []byte
}

// IsZero reports whether the handle carries no image.
func (i Image) IsZero() bool {
	return len(i.Data) == 0
}

// Extension returns a file extension suitable for downloads of this image.
func (i Image) Extension() string {
	switch i.MIMEType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	case "image/heif":
		return ".heif"
	}
	return ".img"
}

// DataURI renders the image as a base64 data URI.
func (i Image) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ParseDataURI decodes a base64 data URI such as the ones produced by a
// browser FileReader.
func ParseDataURI(uri string) (Image, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return Image{}, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fmt.Errorf("malformed data URI: missing payload")
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return Image{}, fmt.Errorf("malformed data URI: only base64 payloads are supported")
	}
	if !isSupportedMIME(mimeType) {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode data URI payload: %w", err)
	}
	if len(data) == 0 {
		return Image{}, ErrEmpty
	}
	return Image{MIMEType: mimeType, Data: data}, nil
}

func isSupportedMIME(mimeType string) bool {
	for _, m := range SupportedImageExtensions {
		if m == mimeType {
			return true
		}
	}
	return false
}

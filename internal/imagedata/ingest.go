package imagedata

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultMaxBytes caps uploads at 20 MB.
const DefaultMaxBytes = 20 << 20

// Options controls how a file is turned into an Image.
type Options struct {
	// MaxBytes rejects larger inputs. Zero means DefaultMaxBytes.
	MaxBytes int64
	// MaxDimension downscales JPEG/PNG images whose longest side exceeds it.
	// Zero disables downscaling.
	MaxDimension int
}

func (o Options) maxBytes() int64 {
	if o.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return o.MaxBytes
}

// FromFile reads a photo from disk.
func FromFile(path string, opts Options) (Image, error) {
	data, err := ReadFile(path, opts)
	if err != nil {
		return Image{}, err
	}
	return FromBytes(data, filepath.Base(path), opts)
}

// FromReader reads a photo from r. name is used for extension-based type
// detection; the content is also sniffed so a mislabelled file is still
// recognised.
func FromReader(r io.Reader, name string, opts Options) (Image, error) {
	data, err := ReadAll(r, opts)
	if err != nil {
		return Image{}, err
	}
	return FromBytes(data, name, opts)
}

// ReadFile reads at most one byte past the size limit from path, leaving the
// limit check to FromBytes.
func ReadFile(path string, opts Options) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return ReadAll(f, opts)
}

// ReadAll is ReadFile for an arbitrary reader.
func ReadAll(r io.Reader, opts Options) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, opts.maxBytes()+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, nil
}

// Ingest runs FromBytes and also returns the EXIF summary of the bytes as
// received. Downscaling re-encodes the photo without its EXIF segment, so the
// metadata has to be read first. meta is nil when the photo carries none.
func Ingest(data []byte, name string, opts Options) (img Image, meta *Metadata, err error) {
	img, err = FromBytes(data, name, opts)
	if err != nil {
		return Image{}, nil, err
	}

	meta, err = ExtractMetadata(Image{MIMEType: img.MIMEType, Data: data})
	if err != nil {
		log.Debug().Err(err).Str("name", name).Msg("No EXIF metadata in photo")
		return img, nil, nil
	}
	return img, meta, nil
}

// FromBytes builds an Image from raw bytes.
func FromBytes(data []byte, name string, opts Options) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrEmpty
	}
	if int64(len(data)) > opts.maxBytes() {
		return Image{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, opts.maxBytes())
	}

	mimeType, err := detectMIMEType(data, name)
	if err != nil {
		return Image{}, err
	}
	img := Image{MIMEType: mimeType, Data: data}

	if opts.MaxDimension > 0 {
		scaled, err := Downscale(img, opts.MaxDimension)
		if err != nil {
			// The original is still usable; Gemini accepts large inputs.
			log.Warn().Err(err).Str("name", name).Msg("Failed to downscale image, keeping original")
		} else {
			img = scaled
		}
	}

	log.Debug().
		Str("name", name).
		Str("mime_type", img.MIMEType).
		Int("input_bytes", len(data)).
		Int("output_bytes", len(img.Data)).
		Msg("Image ingested")

	return img, nil
}

// detectMIMEType prefers the sniffed content type and falls back to the
// extension for formats the sniffer does not know (HEIC/HEIF).
func detectMIMEType(data []byte, name string) (string, error) {
	sniffed := http.DetectContentType(data)
	if isSupportedMIME(sniffed) {
		return sniffed, nil
	}

	ext := strings.ToLower(filepath.Ext(name))
	if mimeType, ok := SupportedImageExtensions[ext]; ok && looksLikeISOBMFF(data) {
		return mimeType, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, sniffed)
}

// looksLikeISOBMFF checks for the ftyp box that starts HEIC/HEIF files.
func looksLikeISOBMFF(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp"))
}

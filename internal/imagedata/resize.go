package imagedata

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultThumbnailMaxDimension is the longest side of history thumbnails.
const DefaultThumbnailMaxDimension = 320

const jpegQuality = 90

// Downscale resizes JPEG and PNG images whose longest side exceeds
// maxDimension, preserving aspect ratio and format. Other formats and images
// already within bounds are returned unchanged.
func Downscale(img Image, maxDimension int) (Image, error) {
	if img.MIMEType != "image/jpeg" && img.MIMEType != "image/png" {
		return img, nil
	}

	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dx() <= maxDimension && bounds.Dy() <= maxDimension {
		return img, nil
	}

	w, h := scaledDimensions(bounds.Dx(), bounds.Dy(), maxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	data, err := encode(dst, img.MIMEType)
	if err != nil {
		return Image{}, err
	}

	log.Debug().
		Int("orig_width", bounds.Dx()).
		Int("orig_height", bounds.Dy()).
		Int("new_width", w).
		Int("new_height", h).
		Msg("Downscaled image")

	return Image{MIMEType: img.MIMEType, Data: data}, nil
}

// Thumbnail renders a small JPEG preview of any decodable image.
func Thumbnail(img Image, maxDimension int) (Image, error) {
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode image for thumbnail: %w", err)
	}

	bounds := src.Bounds()
	w, h := scaledDimensions(bounds.Dx(), bounds.Dy(), maxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	data, err := encode(dst, "image/jpeg")
	if err != nil {
		return Image{}, err
	}
	return Image{MIMEType: "image/jpeg", Data: data}, nil
}

// scaledDimensions fits width x height inside a maxDimension square.
func scaledDimensions(width, height, maxDimension int) (int, int) {
	if width <= maxDimension && height <= maxDimension {
		return width, height
	}
	if width >= height {
		h := height * maxDimension / width
		return maxDimension, max(h, 1)
	}
	w := width * maxDimension / height
	return max(w, 1), maxDimension
}

func encode(img image.Image, mimeType string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch mimeType {
	case "image/png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", mimeType, err)
	}
	return buf.Bytes(), nil
}

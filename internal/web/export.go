package web

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fpang/paint-visualizer/internal/session"
	"github.com/klauspost/compress/zstd"
)

const (
	// MethodZstd is the ZIP compression method ID for Zstandard (APPNOTE 6.3.7).
	MethodZstd uint16 = 93
	// MethodDeflate is the classic ZIP method, readable by every unzip tool.
	MethodDeflate = zip.Deflate
)

func init() {
	zip.RegisterCompressor(MethodZstd, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})
}

type manifestEntry struct {
	ID        string `json:"id"`
	ColorName string `json:"colorName"`
	Timestamp int64  `json:"timestamp"`
	Original  string `json:"original"`
	Edited    string `json:"edited"`
}

// WriteHistoryZip writes versions, most recent first, as numbered folders
// holding the original and edited photo, followed by manifest.json.
func WriteHistoryZip(w io.Writer, versions []session.GeneratedVersion, method uint16) error {
	zw := zip.NewWriter(w)

	manifest := make([]manifestEntry, 0, len(versions))
	for i, v := range versions {
		dir := fmt.Sprintf("%02d-%s", i+1, slug(v.ColorName))
		modified := time.UnixMilli(v.Timestamp)

		entry := manifestEntry{
			ID:        v.ID,
			ColorName: v.ColorName,
			Timestamp: v.Timestamp,
			Original:  dir + "/original" + v.OriginalImage.Extension(),
			Edited:    dir + "/edited" + v.EditedImage.Extension(),
		}
		if err := writeZipFile(zw, entry.Original, v.OriginalImage.Data, method, modified); err != nil {
			return err
		}
		if err := writeZipFile(zw, entry.Edited, v.EditedImage.Data, method, modified); err != nil {
			return err
		}
		manifest = append(manifest, entry)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := writeZipFile(zw, "manifest.json", data, method, time.Now()); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close ZIP writer: %w", err)
	}
	return nil
}

func writeZipFile(zw *zip.Writer, name string, data []byte, method uint16, modified time.Time) error {
	header := &zip.FileHeader{Name: name, Method: method}
	header.Modified = modified
	fw, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create ZIP entry for %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("write to ZIP for %s: %w", name, err)
	}
	return nil
}

// Package imaging processes uploaded poster images: format detection,
// EXIF auto-rotation, downscaling, and re-encoding without metadata.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"cinelog/internal/util"
)

// Posters larger than this are downscaled to fit, keeping aspect ratio.
const (
	MaxPosterWidth  = 1200
	MaxPosterHeight = 1800
)

const encodeQuality = 90

// ProcessResult describes a stored poster.
type ProcessResult struct {
	Filename string // name within the upload directory
	Width    int
	Height   int
	MimeType string
	Size     int64
}

// Processor handles poster image processing using pure Go libraries.
type Processor struct {
	uploadDir string
}

// NewProcessor creates a poster processor writing into uploadDir.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{
		uploadDir: uploadDir,
	}
}

// ProcessPoster reads an uploaded image, normalizes it, and stores it
// under a timestamped slug of the original filename. Re-encoding drops
// EXIF metadata, which also strips GPS tags from phone photos.
func (p *Processor) ProcessPoster(reader io.Reader, originalName string) (*ProcessResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	orientation := readExifOrientation(bytes.NewReader(data))
	img = applyOrientation(img, orientation)

	bounds := img.Bounds()
	if bounds.Dx() > MaxPosterWidth || bounds.Dy() > MaxPosterHeight {
		img = imaging.Fit(img, MaxPosterWidth, MaxPosterHeight, imaging.Lanczos)
		bounds = img.Bounds()
	}

	processed, err := encodeImage(img, format, encodeQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	filename := storedFilename(originalName, format)
	if err := p.saveFile(filename, processed); err != nil {
		return nil, err
	}

	return &ProcessResult{
		Filename: filename,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		MimeType: formatToMimeType(format),
		Size:     int64(len(processed)),
	}, nil
}

// Delete removes a stored poster file. Missing files are not an error.
func (p *Processor) Delete(filename string) error {
	path, err := util.SafeJoinPath(p.uploadDir, filepath.Base(filename))
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete poster: %w", err)
	}
	return nil
}

// DetectMimeType detects the MIME type of image data.
func (p *Processor) DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// storedFilename builds "{unix-timestamp}_{slug}.{ext}" from the
// uploaded name, so two uploads of the same file never collide.
func storedFilename(originalName, format string) string {
	base, err := util.SanitizeFilename(originalName)
	if err != nil {
		base = "poster"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	slug := util.Slugify(base)
	if !util.IsValidSlug(slug) {
		slug = "poster"
	}

	ext := formatToExt(format)
	return fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), slug, ext)
}

func (p *Processor) saveFile(filename string, data []byte) error {
	if err := os.MkdirAll(p.uploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	path, err := util.SafeJoinPath(p.uploadDir, filename)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save poster: %w", err)
	}
	return nil
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image with the specified format and quality.
// WebP input is re-encoded as JPEG since pure Go has no WebP encoder.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatToExt(format string) string {
	switch format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "webp":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

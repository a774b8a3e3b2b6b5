package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cinelog/internal/imaging"
	"cinelog/internal/model"
)

// MaxPosterUploadSize caps poster uploads at 10 MiB.
const MaxPosterUploadSize = 10 << 20

// ErrPosterTooLarge is returned when an upload exceeds MaxPosterUploadSize.
var ErrPosterTooLarge = errors.New("poster file too large")

var allowedPosterExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// PosterService validates and stores uploaded poster images.
type PosterService struct {
	processor *imaging.Processor
}

// NewPosterService creates a PosterService storing files via processor.
func NewPosterService(processor *imaging.Processor) *PosterService {
	return &PosterService{processor: processor}
}

// Store validates and saves an uploaded poster, returning the URL path
// to serve it from. A nil reader means no file was uploaded and yields
// the placeholder image.
func (s *PosterService) Store(reader io.Reader, originalName string) (string, error) {
	if reader == nil || originalName == "" {
		return model.PlaceholderImage, nil
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedPosterExts[ext] {
		return "", fmt.Errorf("unsupported poster extension %q", ext)
	}

	// The extra byte detects uploads past the cap without buffering
	// more than the cap.
	limited := io.LimitReader(reader, MaxPosterUploadSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("reading poster upload: %w", err)
	}
	if len(data) > MaxPosterUploadSize {
		return "", ErrPosterTooLarge
	}

	res, err := s.processor.ProcessPoster(bytes.NewReader(data), originalName)
	if err != nil {
		return "", err
	}

	return "/uploads/" + res.Filename, nil
}

// Remove deletes a stored poster by its URL path. Placeholder and
// external references are left alone.
func (s *PosterService) Remove(imagePath string) error {
	if !strings.HasPrefix(imagePath, "/uploads/") {
		return nil
	}
	return s.processor.Delete(strings.TrimPrefix(imagePath, "/uploads/"))
}

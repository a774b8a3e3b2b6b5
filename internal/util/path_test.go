package util

import (
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain name", "poster.jpg", "poster.jpg", false},
		{"strips directories", "dir/sub/poster.jpg", "poster.jpg", false},
		{"strips traversal", "../../etc/passwd", "passwd", false},
		{"empty", "", "", true},
		{"dot", ".", "", true},
		{"dot dot", "..", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeFilename(%q) error = %v; wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q; want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSafeJoinPath(t *testing.T) {
	base := t.TempDir()

	got, err := SafeJoinPath(base, "posters", "dune.jpg")
	if err != nil {
		t.Fatalf("SafeJoinPath returned error: %v", err)
	}
	want := filepath.Join(base, "posters", "dune.jpg")
	if got != want {
		t.Errorf("SafeJoinPath = %q; want %q", got, want)
	}

	if _, err := SafeJoinPath(base, "..", "outside.jpg"); err == nil {
		t.Error("SafeJoinPath should reject traversal outside base")
	}
}

func TestValidatePathWithinBase(t *testing.T) {
	base := t.TempDir()

	if err := ValidatePathWithinBase(base, filepath.Join(base, "file.txt")); err != nil {
		t.Errorf("path inside base should validate: %v", err)
	}
	if err := ValidatePathWithinBase(base, base); err != nil {
		t.Errorf("base itself should validate: %v", err)
	}
	if err := ValidatePathWithinBase(base, filepath.Join(base, "..", "escape.txt")); err == nil {
		t.Error("path escaping base should fail validation")
	}
	if err := ValidatePathWithinBase(base, base+"-sibling/file.txt"); err == nil {
		t.Error("sibling directory sharing prefix should fail validation")
	}
}

// Package files handles input file resolution and artifact persistence.
//
// Relative input paths for edit/restore and reference images are searched in
// a fixed three-location order: the current directory, the configured output
// directory, and the user's home directory. The first existing match wins.
package files

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindInput resolves a filename to an existing file.
//
// Absolute paths are checked as-is. Relative paths are tried against the
// search locations in order. The returned slice lists every path that was
// checked, for inclusion in not-found error messages.
func FindInput(filename, outputDir string) (path string, searched []string, err error) {
	if filepath.IsAbs(filename) {
		searched = []string{filename}
		if _, statErr := os.Stat(filename); statErr == nil {
			return filename, searched, nil
		}
		return "", searched, fmt.Errorf("file not found: %s", filename)
	}

	dirs := []string{"."}
	if outputDir != "" {
		dirs = append(dirs, outputDir)
	}
	if home, homeErr := os.UserHomeDir(); homeErr == nil {
		dirs = append(dirs, home)
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, filename)
		searched = append(searched, candidate)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, searched, nil
		}
	}
	return "", searched, fmt.Errorf("file not found: %s (searched: %s)", filename, strings.Join(searched, ", "))
}

// MimeType returns the MIME type for an image path based on its extension,
// defaulting to JPEG for anything unrecognized.
func MimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// ReadBase64 reads a file and returns its contents base64-encoded, the form
// the generative API expects for inline image payloads.
func ReadBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Save writes an artifact into dir under the given filename and returns the
// full path.
func Save(dir, filename string, data []byte) (string, error) {
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

package artifact

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Storage persists original and redacted document bytes on local disk under a
// single root directory. Originals live directly in the root, redacted
// derivatives in a redacted/ subdirectory.
type Storage struct {
	root string
}

// NewStorage creates the root and redacted directories if needed.
func NewStorage(root string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Join(root, "redacted"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directories: %w", err)
	}
	return &Storage{root: root}, nil
}

// SaveOriginal writes the uploaded bytes to a new uuid-prefixed file and
// returns its path.
func (s *Storage) SaveOriginal(filename string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%s_%s", uuid.NewString(), SanitizeFilename(filename))
	path := filepath.Join(s.root, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload to %s: %w", path, err)
	}
	return path, nil
}

// RedactedPath derives the output path for the redacted counterpart of an
// original artifact.
func (s *Storage) RedactedPath(originalPath string) string {
	base := filepath.Base(originalPath)
	return filepath.Join(s.root, "redacted", "redacted_"+base)
}

// Read returns the artifact bytes. The path must lie inside the storage root.
func (s *Storage) Read(path string) ([]byte, error) {
	if !s.contains(path) {
		return nil, fmt.Errorf("path %s is outside the storage root", path)
	}
	return os.ReadFile(path)
}

// Remove deletes the given artifacts. Missing files are not an error; empty
// paths are skipped.
func (s *Storage) Remove(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if !s.contains(path) {
			return fmt.Errorf("path %s is outside the storage root", path)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

func (s *Storage) contains(path string) bool {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFilename strips path traversal attempts and dangerous characters
// from a client-supplied filename and caps its length.
func SanitizeFilename(filename string) string {
	name := unsafeChars.ReplaceAllString(filename, "_")
	name = strings.ReplaceAll(name, "..", "_")
	name = strings.TrimLeft(name, "._-")
	if len(name) > 100 {
		name = name[:100]
	}
	if name == "" {
		name = "document"
	}
	return name
}

// Package storage keeps uploaded attachment files on the local filesystem.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// allowedExtensions is the attachment extension allow-list. Enforcement is by
// extension only, not content sniffing.
var allowedExtensions = map[string]bool{
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true,
	"csv": true, "txt": true, "jpg": true, "jpeg": true, "png": true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// AllowedFile reports whether the filename carries an accepted extension
func AllowedFile(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	return allowedExtensions[ext]
}

// SanitizeFilename strips directory components and replaces characters that
// are unsafe in a stored name
func SanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	if base == "" || base == "." || base == ".." {
		base = "arquivo"
	}
	return base
}

// UploadStore saves uploaded files under a base directory
type UploadStore struct {
	basePath string
}

// NewUploadStore creates the store, ensuring the base directory exists
func NewUploadStore(basePath string) (*UploadStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %s: %w", basePath, err)
	}
	return &UploadStore{basePath: basePath}, nil
}

// BasePath returns the uploads base directory
func (s *UploadStore) BasePath() string {
	return s.basePath
}

// Save writes an uploaded file under a uuid-prefixed sanitized name so
// repeated uploads of the same filename never overwrite each other. It
// returns the stored name, relative to the base directory.
func (s *UploadStore) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	stored := fmt.Sprintf("%s_%s", uuid.NewString(), SanitizeFilename(file.Filename))
	dstPath := filepath.Join(s.basePath, stored)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to write file %s: %w", dstPath, err)
	}
	return stored, nil
}

// Delete removes a stored file. A missing file is not an error; deletion is
// best effort.
func (s *UploadStore) Delete(stored string) error {
	path, ok := s.Resolve(stored)
	if !ok {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}

// Resolve maps a stored name to its absolute path, rejecting anything that
// would escape the base directory
func (s *UploadStore) Resolve(stored string) (string, bool) {
	clean := filepath.Clean(strings.ReplaceAll(stored, "\\", "/"))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", false
	}
	return filepath.Join(s.basePath, clean), true
}

// Package uploads stores proof and profile images and returns their public
// URLs. The default backend is the local static directory; Cloudinary is
// used instead when configured.
package uploads

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize caps uploads at 5MB.
const MaxFileSize = 5 * 1024 * 1024

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(data []byte, filename, subdir string) (string, error)
}

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// ValidateFile rejects oversized files and disallowed types.
func ValidateFile(data []byte, filename string) error {
	if len(data) > MaxFileSize {
		return fmt.Errorf("file is too large, max 5MB allowed")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return fmt.Errorf("only Images (JPG/PNG) and PDF allowed")
	}
	return nil
}

// LocalStore writes files under a base directory served as /static.
type LocalStore struct {
	BaseDir   string
	PublicURL string
}

// NewLocalStore creates a disk-backed uploader rooted at baseDir.
func NewLocalStore(baseDir, publicURL string) *LocalStore {
	return &LocalStore{BaseDir: baseDir, PublicURL: strings.TrimRight(publicURL, "/")}
}

// Upload writes the file with a collision-proof name and returns its URL.
func (s *LocalStore) Upload(data []byte, filename, subdir string) (string, error) {
	dir := filepath.Join(s.BaseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString()[:8] + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}

	return s.PublicURL + "/" + path.Join("static", subdir, name), nil
}

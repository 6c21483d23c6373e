// Package upload stores request attachments on disk, one directory per
// request, with sanitized id-prefixed file names.
package upload

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/autofault/service-diagnostics-go/pkg/utilities"
)

var ErrFileNotFound = errors.New("attachment not found")

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

type Config struct {
	Dir string
}

func ConfigFromEnv() Config {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	return Config{Dir: dir}
}

// Storage writes and reads attachment files under a base directory.
type Storage struct {
	dir string
}

func NewStorage(cfg Config) (*Storage, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	return &Storage{dir: cfg.Dir}, nil
}

// sanitizeName strips path components and squashes anything outside the safe
// character set, so a hostile filename cannot escape the upload directory.
func sanitizeName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	clean := unsafeChars.ReplaceAllString(base, "_")
	clean = strings.Trim(clean, "._")
	if clean == "" {
		clean = "file"
	}
	return clean
}

// Save writes one attachment for requestID and returns the stored name the
// request record should carry. Stored names are prefixed with a generated id
// so two uploads with the same original name never clash.
func (s *Storage) Save(requestID, originalName string, src io.Reader) (string, error) {
	dir := filepath.Join(s.dir, sanitizeName(requestID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	stored := utilities.NewAttachmentID() + "_" + sanitizeName(originalName)
	dst, err := os.Create(filepath.Join(dir, stored))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return stored, nil
}

// Open returns a reader over a stored attachment. The stored name is
// re-sanitized so the handler cannot be walked out of the request directory.
func (s *Storage) Open(requestID, storedName string) (*os.File, error) {
	path := filepath.Join(s.dir, sanitizeName(requestID), sanitizeName(storedName))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return f, nil
}

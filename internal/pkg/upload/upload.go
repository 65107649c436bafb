package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store saves uploaded media to a local directory and hands back
// public URLs, mirroring the ensure-bucket / upload / get-public-url
// surface of a managed object store.
type Store struct {
	dir     string
	baseURL string
}

func New(dir, baseURL string) *Store {
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Ensure creates the upload directory if it does not exist yet.
func (s *Store) Ensure() error {
	return os.MkdirAll(s.dir, 0o755)
}

// Save writes one file and returns its public URL. Filenames are
// regenerated so uploads can never collide or traverse paths.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write media file: %w", err)
	}

	return s.baseURL + "/media/" + name, nil
}

// Dir returns the directory served under /media.
func (s *Store) Dir() string { return s.dir }

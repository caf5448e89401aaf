package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sigortaci/acente-api/pkg/utils"
)

// StoredFile describes a file written to local storage
type StoredFile struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// LocalStorage keeps uploads on disk under root/<yyyy>/<mm>/ and exposes them
// under publicURL with the same relative layout.
type LocalStorage struct {
	root      string
	publicURL string
	now       func() time.Time
}

// NewLocalStorage creates a disk-backed store
func NewLocalStorage(root, publicURL string) *LocalStorage {
	return &LocalStorage{
		root:      root,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// Root is the directory served as the public upload path
func (s *LocalStorage) Root() string {
	return s.root
}

// Save streams r to a new uniquely named file. originalName is kept as the
// display name and supplies the extension.
func (s *LocalStorage) Save(ctx context.Context, originalName string, r io.Reader) (*StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	rel := path.Join(fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), utils.StoredFileName(originalName))
	dst := filepath.Join(s.root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("write upload file: %w", err)
	}

	mt, err := mimetype.DetectFile(dst)
	if err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("detect mime type: %w", err)
	}

	return &StoredFile{
		Name:     filepath.Base(originalName),
		URL:      s.publicURL + "/" + rel,
		MimeType: mt.String(),
		Size:     size,
	}, nil
}

// Remove deletes the file behind a public URL. URLs outside the store and
// files that are already gone are ignored.
func (s *LocalStorage) Remove(url string) error {
	p, ok := s.pathFor(url)
	if !ok {
		return nil
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Owns reports whether url points inside this store
func (s *LocalStorage) Owns(url string) bool {
	_, ok := s.pathFor(url)
	return ok
}

func (s *LocalStorage) pathFor(url string) (string, bool) {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	rel := path.Clean("/" + strings.TrimPrefix(url, prefix))
	if rel == "/" {
		return "", false
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(rel, "/"))), true
}

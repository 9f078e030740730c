// Package media stores uploaded images on the local filesystem and serves
// them back under a public URL prefix. Keys are opaque generated filenames,
// never caller-supplied paths.
package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amcruz/storefront-backend/pkg/config"
	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

// Store persists uploads under one directory.
type Store struct {
	dir        string
	publicBase string
	maxBytes   int64
}

// NewStore prepares the upload directory and returns a store for it.
func NewStore(cfg config.UploadsConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("uploads dir required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir: %w", err)
	}
	maxBytes := int64(cfg.MaxUploadMB) * 1024 * 1024
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}
	return &Store{
		dir:        cfg.Dir,
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
		maxBytes:   maxBytes,
	}, nil
}

// Save writes one upload and returns its generated key. The original
// filename only contributes its extension.
func (s *Store) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type").
			WithDetails(map[string]string{"extension": ext})
	}

	key := uuid.NewString() + ext
	path := filepath.Join(s.dir, key)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create upload file")
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		_ = os.Remove(path)
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write upload file")
	}
	if written > s.maxBytes {
		_ = os.Remove(path)
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image exceeds the upload size limit")
	}
	if written == 0 {
		_ = os.Remove(path)
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image is empty")
	}
	return key, nil
}

// Delete removes a stored file. Deleting a missing key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete upload file")
	}
	return nil
}

// PublicURL maps a key to the URL the storefront fetches it from.
func (s *Store) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// KeyFromURL reverses PublicURL; it returns the empty string when the URL is
// not one of ours.
func (s *Store) KeyFromURL(url string) string {
	prefix := s.publicBase + "/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}

// Dir returns the backing directory, used to mount the static file route.
func (s *Store) Dir() string {
	return s.dir
}

// ListOlderThan returns the keys of stored files last modified before the
// cutoff. The sweeper uses the age gate so an upload is never collected
// between being written and its product row landing.
func (s *Store) ListOlderThan(_ context.Context, minAge time.Duration) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read uploads dir")
	}

	cutoff := time.Now().Add(-minAge)
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			keys = append(keys, entry.Name())
		}
	}
	return keys, nil
}

// resolve joins the key onto the store dir, rejecting anything that would
// escape it.
func (s *Store) resolve(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid image key")
	}
	return filepath.Join(s.dir, key), nil
}

// Package storage persists uploaded images on the local filesystem and
// maps them to the public paths they are served under.
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
)

var (
	ErrInvalidName = errors.New("invalid file name")
)

// StoredFile describes a file held by the store
type StoredFile struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// ImageStore defines the operations the upload flow needs from a blob location
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader) (StoredFile, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]StoredFile, error)
	URL(name string) string
	NameFromURL(url string) (string, bool)
}

// LocalImageStore writes images into a directory served under publicPath
type LocalImageStore struct {
	dir        string
	publicPath string
}

// NewLocalImageStore creates a store rooted at dir. The directory is
// created on first write.
func NewLocalImageStore(dir, publicPath string) *LocalImageStore {
	return &LocalImageStore{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}
}

// Dir returns the directory files are written to
func (s *LocalImageStore) Dir() string {
	return s.dir
}

// Save writes r to name. The content lands in a temporary file first and
// is renamed into place, so a failed write leaves nothing behind.
func (s *LocalImageStore) Save(ctx context.Context, name string, r io.Reader) (StoredFile, error) {
	if err := validName(name); err != nil {
		return StoredFile{}, err
	}
	if err := ctx.Err(); err != nil {
		return StoredFile{}, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return StoredFile{}, fmt.Errorf("failed to create upload directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	size, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		return StoredFile{}, fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return StoredFile{}, fmt.Errorf("failed to move file into place: %w", err)
	}

	return StoredFile{Name: name, Size: size, ModTime: time.Now()}, nil
}

// Delete removes name. Deleting a missing file is not an error.
func (s *LocalImageStore) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// List returns the regular files in the directory, skipping in-progress
// temporary files. A missing directory holds no files.
func (s *LocalImageStore) List(ctx context.Context) ([]StoredFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []StoredFile{}, nil
		}
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	files := []StoredFile{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, StoredFile{Name: entry.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}

	return files, nil
}

// URL returns the public path name is served under
func (s *LocalImageStore) URL(name string) string {
	return path.Join(s.publicPath, name)
}

// NameFromURL extracts the stored file name from a public path. It reports
// false for references that point elsewhere.
func (s *LocalImageStore) NameFromURL(url string) (string, bool) {
	prefix := s.publicPath + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	if validName(name) != nil {
		return "", false
	}
	return name, true
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

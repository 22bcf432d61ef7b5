// Package disk stores uploads on the local filesystem.
package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	dirPerm  = 0o750
	filePerm = 0o640
)

// ErrOutsideRoot is returned for references that do not belong to this store.
var ErrOutsideRoot = errors.New("reference outside upload directory")

// Store writes files below Dir and returns references below URLPrefix.
type Store struct {
	dir       string
	urlPrefix string
}

// New creates the upload directory if needed.
func New(dir, urlPrefix string) (*Store, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return &Store{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}, nil
}

// Dir returns the root directory, served statically under URLPrefix.
func (s *Store) Dir() string {
	return s.dir
}

// URLPrefix returns the path prefix of every reference.
func (s *Store) URLPrefix() string {
	return s.urlPrefix
}

// Name implements upload.Materializer.
func (s *Store) Name() string {
	return "disk"
}

// FileName returns a unique file name keeping the lower-cased extension of original.
func FileName(original string) string {
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), strings.ToLower(filepath.Ext(original)))
}

// Put implements upload.Materializer.
func (s *Store) Put(ctx context.Context, folder string, fh *multipart.FileHeader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	folder = strings.Trim(path.Clean("/"+folder), "/")
	if err := os.MkdirAll(filepath.Join(s.dir, folder), dirPerm); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := FileName(fh.Filename)
	target := filepath.Join(s.dir, folder, name)

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err = io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(target)

		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err = dst.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path.Join(s.urlPrefix, folder, name), nil
}

// Remove implements upload.Materializer.
func (s *Store) Remove(_ context.Context, ref string) error {
	rel, ok := strings.CutPrefix(ref, s.urlPrefix+"/")
	if !ok {
		return ErrOutsideRoot
	}

	rel = path.Clean("/" + rel)[1:]
	if rel == "" {
		return ErrOutsideRoot
	}

	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return nil
}

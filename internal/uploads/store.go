// Package uploads is the image upload adapter: it accepts multipart file
// headers, enforces the allowed image formats and hands back a stable public
// path for the stored binary.
package uploads

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

	"github.com/google/uuid"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

var allowedFormats = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
}

type Store interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
}

// DiskStore writes uploads under dir/folder and returns paths rooted at
// baseURL. The folder is fixed per deployment.
type DiskStore struct {
	dir     string
	folder  string
	baseURL string
}

func NewDiskStore(dir, folder, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, folder), 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{
		dir:     dir,
		folder:  folder,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *DiskStore) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if !allowedFormats[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + "." + ext
	dst, err := os.Create(filepath.Join(s.dir, s.folder, name))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}

	return path.Join(s.baseURL, s.folder, name), nil
}

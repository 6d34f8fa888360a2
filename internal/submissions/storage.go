package submissions

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gradehub/internal/shared/errs"
)

// Storage persists uploaded submission files and returns the URL under
// which they were stored.
type Storage interface {
	Save(file *multipart.FileHeader) (string, error)
}

// diskStorage writes uploads into a local directory with a generated
// filename. Only PDF files are accepted.
type diskStorage struct {
	dir     string
	maxSize int64
}

func NewDiskStorage(dir string, maxSize int64) (Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &diskStorage{dir: dir, maxSize: maxSize}, nil
}

func (s *diskStorage) Save(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", errs.ErrInvalidUpload
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", errs.ErrInvalidUpload
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	filename := fmt.Sprintf("file-%d%s", time.Now().UnixMilli(), ext)
	dstPath := filepath.Join(s.dir, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return filepath.ToSlash(dstPath), nil
}

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadResult is the stored location of a blob: a public URL for clients
// and a filesystem path for local processing (PDF extraction).
type UploadResult struct {
	URL  string
	Path string
}

// Uploader persists raw upload bytes and returns where they live.
type Uploader interface {
	Put(ctx context.Context, userId uuid.UUID, filename string, data []byte) (*UploadResult, error)
	Remove(ctx context.Context, path string) error
}

// LocalUploader writes uploads under a directory that the HTTP server mounts
// statically. Files are keyed as <userId>/<timestamp>_<filename> so
// concurrent uploads of the same name never collide.
type LocalUploader struct {
	rootDir string
	baseURL string
}

var _ Uploader = &LocalUploader{}

func NewLocalUploader(rootDir, baseURL string) *LocalUploader {
	return &LocalUploader{
		rootDir: rootDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (u *LocalUploader) Put(ctx context.Context, userId uuid.UUID, filename string, data []byte) (*UploadResult, error) {
	safe := sanitizeFilename(filename)
	rel := filepath.Join(userId.String(), fmt.Sprintf("%d_%s", time.Now().UnixMilli(), safe))
	full := filepath.Join(u.rootDir, rel)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	return &UploadResult{
		URL:  u.baseURL + "/uploads/" + filepath.ToSlash(rel),
		Path: full,
	}, nil
}

func (u *LocalUploader) Remove(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	// Refuse anything that escapes the upload root
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	root, err := filepath.Abs(u.rootDir)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return fmt.Errorf("refusing to remove file outside upload root: %s", path)
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}

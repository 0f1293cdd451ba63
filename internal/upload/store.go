// Package upload stores media files and hands back their public URLs.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/config"
	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
)

// Categories group stored files into sub-directories.
const (
	CategoryAvatar    = "avatars"
	CategoryCover     = "covers"
	CategoryVideo     = "videos"
	CategoryThumbnail = "thumbnails"
	CategoryTweet     = "tweets"
)

var categories = map[string]bool{
	CategoryAvatar: true, CategoryCover: true, CategoryVideo: true,
	CategoryThumbnail: true, CategoryTweet: true,
}

// File is an incoming upload.
type File struct {
	Name string
	Body io.Reader
}

// Result describes a stored file. DurationSeconds is 0 when unknown.
type Result struct {
	URL             string
	DurationSeconds float64
}

// Store persists media; callers only see the URL.
type Store interface {
	Store(ctx context.Context, f File, category string) (Result, error)
}

// ErrTooLarge is returned when a file exceeds the configured size cap.
var ErrTooLarge = errors.New("file too large")

// LocalStore writes files under a directory served at BaseURL.
type LocalStore struct {
	dir      string
	baseURL  string
	maxBytes int64
}

func NewLocalStore(cfg config.UploadConfig) *LocalStore {
	return &LocalStore{
		dir:      cfg.Dir,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		maxBytes: cfg.MaxBytes,
	}
}

// Dir is the root directory files are written to.
func (s *LocalStore) Dir() string { return s.dir }

// Store copies f into <dir>/<category>/<uuid><ext> through a temp file, so a
// failed or oversized upload leaves nothing behind.
func (s *LocalStore) Store(ctx context.Context, f File, category string) (Result, error) {
	if !categories[category] {
		return Result{}, fmt.Errorf("unknown upload category %q", category)
	}
	if f.Body == nil {
		return Result{}, svcErr.Validation("file is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	dir := filepath.Join(s.dir, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create upload dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "pending-upload-*")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	src := f.Body
	if s.maxBytes > 0 {
		src = io.LimitReader(f.Body, s.maxBytes+1)
	}
	written, err := io.Copy(tmp, src)
	if err != nil {
		return Result{}, fmt.Errorf("save upload: %w", err)
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		return Result{}, svcErr.Wrap(svcErr.KindValidation, "file too large", ErrTooLarge)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("save upload: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(f.Name))
	if ext == "" {
		ext = ".bin"
	}
	name := uuid.NewString() + ext
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return Result{}, fmt.Errorf("store upload: %w", err)
	}
	return Result{URL: s.baseURL + "/" + path.Join(category, name)}, nil
}

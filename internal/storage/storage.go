// AngelaMos | 2026
// storage.go

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/carterperez-dev/storefront-api/internal/config"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image too large")
	ErrEmptyImage       = errors.New("empty image")
)

// Store persists opaque objects and hands back a public URL for each.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// Images validates and normalises uploaded pictures before they reach a
// Store. Only the resulting URL is meant to be persisted.
type Images struct {
	store     Store
	maxSize   int64
	maxWidth  uint
	maxPixels int
}

func NewImages(store Store, cfg config.StorageConfig) *Images {
	return &Images{
		store:     store,
		maxSize:   cfg.MaxUploadSize,
		maxWidth:  cfg.MaxImageWidth,
		maxPixels: cfg.MaxImagePixels,
	}
}

func (i *Images) MaxUploadSize() int64 {
	return i.maxSize
}

func (i *Images) SaveFile(
	ctx context.Context,
	fh *multipart.FileHeader,
) (string, error) {
	if i.maxSize > 0 && fh.Size > i.maxSize {
		return "", fmt.Errorf("save %s: %w", fh.Filename, ErrImageTooLarge)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	return i.Save(ctx, f)
}

// Save reads at most maxSize bytes from r, re-encodes the image as JPEG and
// stores it under a fresh key.
func (i *Images) Save(ctx context.Context, r io.Reader) (string, error) {
	limit := i.maxSize
	if limit <= 0 {
		limit = defaultMaxUploadSize
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return "", ErrImageTooLarge
	}

	normalized, err := Normalize(bytes.NewReader(data), i.maxWidth, i.maxPixels)
	if err != nil {
		return "", err
	}

	key := "images/" + uuid.New().String() + ".jpg"
	url, err := i.store.Put(ctx, key, "image/jpeg", normalized)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	return url, nil
}

func (i *Images) SaveFiles(
	ctx context.Context,
	files []*multipart.FileHeader,
) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := i.SaveFile(ctx, fh)
		if err != nil {
			i.DeleteAll(ctx, urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// DeleteAll removes stored images, logging failures instead of returning
// them.
func (i *Images) DeleteAll(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := i.store.Delete(ctx, url); err != nil {
			slog.Warn("delete stored image", "url", url, "error", err)
		}
	}
}

// IsClientError reports whether err came from a bad upload rather than from
// the backing store.
func IsClientError(err error) bool {
	_, ok := ClientMessage(err)
	return ok
}

// ClientMessage returns a message safe to show the uploader.
func ClientMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrUnsupportedImage):
		return "unsupported image type, use jpeg, png or gif", true
	case errors.Is(err, ErrImageTooLarge):
		return "image exceeds the upload size or dimension limit", true
	case errors.Is(err, ErrEmptyImage):
		return "image file is empty", true
	default:
		return "", false
	}
}

// FormFiles collects the uploaded parts under any of the given field names.
func FormFiles(form *multipart.Form, fields ...string) []*multipart.FileHeader {
	if form == nil {
		return nil
	}

	var files []*multipart.FileHeader
	for _, field := range fields {
		files = append(files, form.File[field]...)
	}
	return files
}

// Package storage keeps uploaded files such as receipt images on local disk
// or in an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"famledger/internal/config"
	"famledger/internal/uuid"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how many leading bytes are inspected to detect the content type.
const sniffLen = 3072

// ErrNotImage is returned by DetectImage for content that is not a raster image.
var ErrNotImage = errors.New("content is not an image")

// Storage saves and deletes objects addressed by slash-separated keys.
type Storage interface {
	Save(ctx context.Context, key, contentType string, content io.Reader) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// New returns the Storage selected by cfg.StorageDriver.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalStorage(cfg.MediaRoot, cfg.MediaURL), nil
	case "s3":
		return NewS3Storage(S3Config{
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// ImageKey returns a fresh key under prefix that keeps the extension of
// originalName, e.g. uploads/record/0190....jpg.
func ImageKey(prefix, originalName string) string {
	ext := filepath.Ext(path.Base(filepath.ToSlash(originalName)))
	return path.Join(prefix, uuid.New()+ext)
}

// DetectImage sniffs the start of r and fails with ErrNotImage unless it is a
// raster image. The returned reader yields the full content, including the
// sniffed bytes.
func DetectImage(r io.Reader) (io.Reader, string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	contentType := mt.String()
	if !strings.HasPrefix(contentType, "image/") || mt.Is("image/svg+xml") {
		return nil, "", fmt.Errorf("%w: detected %s", ErrNotImage, contentType)
	}
	return io.MultiReader(bytes.NewReader(head), r), contentType, nil
}

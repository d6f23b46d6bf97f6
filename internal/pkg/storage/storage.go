package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidPath = errors.New("invalid file path")
	ErrNotFound    = errors.New("file not found")
)

// Object identifies a stored file. Key is backend specific; URL is public.
type Object struct {
	Key string
	URL string
}

type FileStorage interface {
	// Upload stores file under path, replacing any previous content.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (Object, error)

	// Delete removes a file by key. Missing files are not an error.
	Delete(ctx context.Context, key string) error

	// Exists checks if file exists
	Exists(ctx context.Context, key string) (bool, error)
}

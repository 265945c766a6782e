package storage

import (
	"context"
	"io"
)

// FileStorage keeps uploaded attachments. Paths are slash-separated keys
// relative to the storage root.
type FileStorage interface {
	// Upload stores file under path and returns the stored key.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	Delete(ctx context.Context, path string) error

	// URL is the public address of a stored key.
	URL(path string) string
}

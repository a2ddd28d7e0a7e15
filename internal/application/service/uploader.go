package service

import (
	"context"
	"io"
)

// Uploader stores binary objects (avatars, gallery images, archived
// portfolio blobs) and returns a public URL for them.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}

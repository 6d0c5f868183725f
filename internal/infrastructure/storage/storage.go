// Package storage persists uploaded avatar files.
package storage

import (
	"context"
	"io"
)

// AvatarStorage stores avatar files under flat, already-sanitized names.
type AvatarStorage interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, name string) error
	// URL is the address templates use to display the file.
	URL(name string) string
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS stores avatars as objects under Prefix in a bucket.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

func NewGCS(client *storage.Client, bucket, prefix string) (*GCS, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("gcs bucket is required")
	}
	return &GCS{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

func (g *GCS) key(name string) string {
	return path.Join(g.prefix, name)
}

func (g *GCS) Save(ctx context.Context, name string, r io.Reader, _ int64, contentType string) error {
	wc := g.client.Bucket(g.bucket).Object(g.key(name)).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // small files, single request
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

func (g *GCS) Delete(ctx context.Context, name string) error {
	err := g.client.Bucket(g.bucket).Object(g.key(name)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

// URL assumes the bucket allows public reads.
func (g *GCS) URL(name string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, g.key(name))
}

var _ AvatarStorage = (*GCS)(nil)

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	gcs "cloud.google.com/go/storage"
)

// ErrNotExist reports a blob absent from the store.
var ErrNotExist = errors.New("blob does not exist")

// BlobStore is the storage surface the assembly pipeline needs. The
// pipeline is handed one store at process start; tests substitute an
// in-memory fake.
type BlobStore interface {
	// Download copies bucket/object into the local file dest.
	Download(ctx context.Context, bucket, object, dest string) error
	// Upload copies the local file src to bucket/object.
	Upload(ctx context.Context, bucket, object, src string) error
	// Size returns the stored byte size from the object's own
	// metadata, not from any local file.
	Size(ctx context.Context, bucket, object string) (int64, error)
}

// GCSStore implements BlobStore against Google Cloud Storage.
type GCSStore struct {
	client *gcs.Client
}

// NewGCSStore creates a store using ambient application credentials.
func NewGCSStore(ctx context.Context) (*GCSStore, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{client: client}, nil
}

func (s *GCSStore) Download(ctx context.Context, bucket, object, dest string) error {
	r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return ErrNotExist
		}
		return fmt.Errorf("open gs://%s/%s: %w", bucket, object, err)
	}
	defer r.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("download gs://%s/%s: %w", bucket, object, err)
	}
	return out.Close()
}

func (s *GCSStore) Upload(ctx context.Context, bucket, object, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	w := s.client.Bucket(bucket).Object(object).NewWriter(ctx)
	if ct := mime.TypeByExtension(filepath.Ext(object)); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, in); err != nil {
		w.Close()
		return fmt.Errorf("upload gs://%s/%s: %w", bucket, object, err)
	}
	// Close commits the upload.
	if err := w.Close(); err != nil {
		return fmt.Errorf("upload gs://%s/%s: %w", bucket, object, err)
	}
	return nil
}

func (s *GCSStore) Size(ctx context.Context, bucket, object string) (int64, error) {
	attrs, err := s.client.Bucket(bucket).Object(object).Attrs(ctx)
	if err != nil {
		return 0, fmt.Errorf("stat gs://%s/%s: %w", bucket, object, err)
	}
	return attrs.Size, nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

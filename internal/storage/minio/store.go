// Package minio implements document storage on MinIO and other
// S3-compatible object stores.
package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/femitubosun/codygo-task/internal/storage"
	"github.com/femitubosun/codygo-task/pkg/config"
)

// Store implements storage.Store for a MinIO bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// NewStore creates a MinIO document store.
func NewStore(client *minio.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// NewClient builds a MinIO client from storage config.
func NewClient(cfg config.StorageConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}
	return client, nil
}

func (s *Store) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	// GetObject is lazy; Stat first so missing keys surface before any
	// bytes are streamed.
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("stat %q in minio: %w", key, err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetching %q from minio: %w", key, err)
	}
	return obj, nil
}

func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64) error {
	if _, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{}); err != nil {
		return fmt.Errorf("uploading %q to minio: %w", key, err)
	}
	return nil
}

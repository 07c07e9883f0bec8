package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/oakstead/careledger/internal/config"
	"github.com/oakstead/careledger/internal/logger"
)

// minioStore is the MinIO-backed implementation of [Store]. It works against
// any S3-compatible endpoint.
type minioStore struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

// NewMinioStore connects to the configured S3-compatible endpoint and makes
// sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg config.Blob, log *logger.Logger) (Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Err(err).Str("func", "NewMinioStore").Msg("failed to create object store client")
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		log.Err(err).Str("func", "NewMinioStore").Str("bucket", cfg.Bucket).Msg("failed to check bucket")
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if makeErr := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); makeErr != nil {
			log.Err(makeErr).Str("func", "NewMinioStore").Str("bucket", cfg.Bucket).Msg("failed to create bucket")
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, makeErr)
		}
	}

	log.Info().Str("func", "NewMinioStore").Str("bucket", cfg.Bucket).Msg("connected to object store")

	return &minioStore{
		client: client,
		bucket: cfg.Bucket,
		logger: log,
	}, nil
}

func (s *minioStore) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Err(err).
			Str("func", "minioStore.Put").
			Str("key", key).
			Msg("failed to upload object")
		return fmt.Errorf("failed to upload object %q: %w", key, err)
	}

	return nil
}

func (s *minioStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	signed, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		s.logger.Err(err).
			Str("func", "minioStore.SignedURL").
			Str("key", key).
			Msg("failed to presign object url")
		return "", fmt.Errorf("failed to presign url for %q: %w", key, err)
	}

	return signed.String(), nil
}

func (s *minioStore) Remove(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		s.logger.Err(err).
			Str("func", "minioStore.Remove").
			Str("key", key).
			Msg("failed to remove object")
		return fmt.Errorf("failed to remove object %q: %w", key, err)
	}

	return nil
}

package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/config"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
)

// S3Storage keeps draft image payloads in a MinIO bucket. Each upload
// gets a unique object key under previews/; the returned handle is that
// key plus the object URL the front end renders.
type S3Storage struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewS3Storage(cfg *config.MinIOConfig, logger *zap.Logger) (*S3Storage, error) {
	logger.Info("Initializing MinIO storage",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
		zap.Bool("use_ssl", cfg.UseSSL),
	)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	err = client.MakeBucket(context.Background(), cfg.Bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(context.Background(), cfg.Bucket)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)",
				cfg.Bucket, err, errBucketExists)
		}
	}

	return &S3Storage{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, fileName, contentType string, data []byte) (entity.PreviewHandle, error) {
	ext := filepath.Ext(fileName)
	objectKey := fmt.Sprintf("previews/%s%s", uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("S3Storage.Upload: PutObject failed",
			zap.String("bucket", s.bucket), zap.String("key", objectKey), zap.Error(err))
		return entity.PreviewHandle{}, fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)
	s.logger.Debug("S3Storage.Upload: file uploaded",
		zap.String("key", objectKey), zap.Int("size_bytes", len(data)))

	return entity.PreviewHandle{Key: objectKey, URL: url}, nil
}

// Remove deletes the preview object. MinIO treats removal of a missing
// key as success, which keeps handle release idempotent.
func (s *S3Storage) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("S3Storage.Remove: RemoveObject failed",
			zap.String("bucket", s.bucket), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to remove object %s from bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

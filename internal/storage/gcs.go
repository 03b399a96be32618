package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"snapspend/pkg/config"
)

// GCSStore keeps receipt images in a Google Cloud Storage bucket with public
// read access. Objects are write-once: the caller supplies a name unique per
// upload and we never overwrite.
type GCSStore struct {
	client        *storage.Client
	bucket        string
	prefix        string
	publicBaseURL string
	logger        *zap.Logger
}

func NewGCSStore(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{
		client:        client,
		bucket:        cfg.Bucket,
		prefix:        cfg.ObjectPrefix,
		publicBaseURL: cfg.PublicBaseURL,
		logger:        logger,
	}, nil
}

// Upload writes data under objectName and returns the stable public URL.
func (s *GCSStore) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	objectPath := path.Join(s.prefix, objectName)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %q: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload %q: %w", objectPath, err)
	}

	s.logger.Info("Image uploaded",
		zap.String("bucket", s.bucket),
		zap.String("object", objectPath),
		zap.Int("size", len(data)),
	)

	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, objectPath), nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

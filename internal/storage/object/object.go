package object

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/driftwood-dev/driftwood/internal/config"
	"github.com/driftwood-dev/driftwood/internal/domain"
	"github.com/driftwood-dev/driftwood/internal/logger"
)

// Store keeps validated attachments in S3-compatible object storage and
// returns the keys persisted alongside the thread row.
type Store struct {
	client *minio.Client
	bucket string
}

func New(ctx context.Context, cfg config.S3) (*Store, error) {
	endpoint := strings.TrimPrefix(cfg.Endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	var creds *credentials.Credentials
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		// IAM role credentials when keys are not provided
		creds = credentials.NewIAM("")
	} else {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.Bucket)
	}

	logger.Log.Info("connected to object storage", "endpoint", endpoint, "bucket", cfg.Bucket)
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Save uploads every pending file and returns their object keys. Keys are
// uuid-prefixed so colliding filenames never overwrite each other.
func (s *Store) Save(ctx context.Context, files []*domain.PendingFile) (domain.Attachments, error) {
	keys := make(domain.Attachments, 0, len(files))
	for _, file := range files {
		key := fmt.Sprintf("%s/%s", uuid.NewString(), sanitizeFilename(file.Filename))
		_, err := s.client.PutObject(ctx, s.bucket, key, file.Data, file.SizeBytes, minio.PutObjectOptions{
			ContentType: file.MimeType,
		})
		if err != nil {
			// Best effort: roll back what's already uploaded
			s.remove(ctx, keys)
			return nil, fmt.Errorf("failed to upload %q: %w", file.Filename, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Delete removes stored attachments. Missing objects are not an error.
func (s *Store) Delete(ctx context.Context, keys domain.Attachments) error {
	var firstErr error
	for _, key := range keys {
		err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove %q: %w", key, err)
		}
	}
	return firstErr
}

func (s *Store) remove(ctx context.Context, keys domain.Attachments) {
	for _, key := range keys {
		if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			logger.Log.Warn("failed to remove orphaned attachment", "key", key, "error", err)
		}
	}
}

func sanitizeFilename(name string) string {
	name = path.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	return name
}

package posters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"stream-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const contentType = "image/jpeg"

// Service mirrors poster images into object storage so that local
// poster links survive catalog URL rotation.
type Service struct {
	client storage.Client
	bucket string
	http   *http.Client
	logger *zap.Logger
}

// NewService creates the poster asset service.
func NewService(client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// EnsureBucket creates the poster bucket when it does not exist yet.
func (s *Service) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket: %w", err)
	}
	s.logger.Info("Created poster bucket", zap.String("bucket", s.bucket))
	return nil
}

// Exists reports whether a poster object is already stored.
func (s *Service) Exists(ctx context.Context, object string) bool {
	_, err := s.client.StatObject(ctx, s.bucket, object, minio.StatObjectOptions{})
	return err == nil
}

// Fetch downloads a poster image from the catalog CDN.
func (s *Service) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching poster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching poster: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Store uploads a poster object.
func (s *Service) Store(ctx context.Context, object string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("storing poster: %w", err)
	}
	return nil
}

// Get downloads a stored poster object.
func (s *Service) Get(ctx context.Context, object string) ([]byte, error) {
	reader, err := s.client.GetObject(ctx, s.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("reading poster: %w", err)
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// Remove deletes a stored poster object.
func (s *Service) Remove(ctx context.Context, object string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, object, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing poster: %w", err)
	}
	return nil
}

// Mirror fetches a poster URL and stores it under object, returning the
// image bytes. Already-stored objects are not fetched again; their
// stored bytes are returned instead.
func (s *Service) Mirror(ctx context.Context, url, object string) ([]byte, error) {
	if s.Exists(ctx, object) {
		return s.Get(ctx, object)
	}

	data, err := s.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := s.Store(ctx, object, data); err != nil {
		return nil, err
	}
	s.logger.Debug("Mirrored poster", zap.String("object", object), zap.Int("bytes", len(data)))
	return data, nil
}

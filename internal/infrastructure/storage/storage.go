// Package storage stores provider document photos in MinIO S3.
package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	"github.com/mutugading/marketplace-backend/internal/domain/shared"
	"github.com/mutugading/marketplace-backend/internal/infrastructure/config"
)

var extensionsByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// MinIOService implements document photo storage using the MinIO S3 client.
// Document photos are private; the bucket gets no public policy.
type MinIOService struct {
	client    *minio.Client
	bucket    string
	basePath  string
	publicURL string
}

// NewMinIOService creates a new MinIO storage service and ensures the bucket exists.
func NewMinIOService(ctx context.Context, cfg *config.StorageConfig) (*MinIOService, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}

	// Support self-signed TLS certificates.
	if cfg.UseSSL && cfg.InsecureSkipVerify {
		opts.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, //nolint:gosec // user explicitly opted-in for self-signed certs
			},
		}
	}

	client, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	svc := &MinIOService{
		client:    client,
		bucket:    cfg.Bucket,
		basePath:  strings.Trim(cfg.BasePath, "/"),
		publicURL: cfg.PublicURL,
	}

	if err := svc.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket: %w", err)
	}

	log.Info().
		Str("endpoint", cfg.Endpoint).
		Str("bucket", cfg.Bucket).
		Bool("ssl", cfg.UseSSL).
		Msg("MinIO storage service initialized")

	return svc, nil
}

func (s *MinIOService) ensureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	log.Info().Str("bucket", s.bucket).Msg("bucket created")
	return nil
}

// UploadDocumentPhoto uploads a provider document photo and returns its URL.
// Objects are stored as {basePath}/documents/{providerID}/{uuid}{ext}.
func (s *MinIOService) UploadDocumentPhoto(
	ctx context.Context,
	providerID, filename string,
	data io.Reader,
	size int64,
	contentType string,
) (string, error) {
	objectName := s.objectName(providerID, filename, contentType)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document photo: %w", err)
	}

	objectURL := s.objectURL(s.client.EndpointURL().String(), objectName)

	log.Debug().
		Str("provider_id", providerID).
		Str("object", objectName).
		Msg("document photo uploaded")

	return objectURL, nil
}

func (s *MinIOService) objectName(providerID, filename, contentType string) string {
	ext, ok := extensionsByContentType[contentType]
	if !ok {
		ext = strings.ToLower(path.Ext(filename))
	}
	name := fmt.Sprintf("documents/%s/%s%s", providerID, uuid.New().String(), ext)
	if s.basePath == "" {
		return name
	}
	return s.basePath + "/" + name
}

func (s *MinIOService) objectURL(endpoint, objectName string) string {
	base := endpoint
	if s.publicURL != "" {
		base = s.publicURL
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), s.bucket, objectName)
}

// ErrDisabled is returned by Disabled for every upload.
var ErrDisabled = shared.OperationFailed("STORAGE_DISABLED", "document storage is not configured", nil)

// Disabled rejects uploads when no object store is configured.
type Disabled struct{}

// UploadDocumentPhoto always fails with ErrDisabled.
func (Disabled) UploadDocumentPhoto(context.Context, string, string, io.Reader, int64, string) (string, error) {
	return "", ErrDisabled
}

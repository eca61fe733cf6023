// Package archive exports and imports compressed index snapshots
// (spec §4.I segments, internal/indexstore.WriteCompressedSegment) to an
// S3-compatible object store — MinIO for self-hosted deployments, AWS S3
// for managed ones — so a lattice index can be backed up or moved
// between machines without a live Postgres dump.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig holds the MinIO connection settings a Store needs
// (config.Config.MinIO, read from the MINIO_* environment variables).
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIOStore uploads/downloads snapshot segments to a MinIO (or any
// S3-compatible) bucket.
type MinIOStore struct {
	mc     *minio.Client
	bucket string
}

// NewMinIOStore dials the endpoint with static credentials, the same
// shape the teacher's store/minio.NewClient uses.
func NewMinIOStore(cfg MinIOConfig) (*MinIOStore, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("archive: create minio client: %w", err)
	}
	return &MinIOStore{mc: mc, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the configured bucket if it doesn't exist yet.
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.mc.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("archive: check bucket: %w", err)
	}
	if !exists {
		if err := s.mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("archive: create bucket: %w", err)
		}
	}
	return nil
}

// Upload writes reader's contents to objectName under the configured
// bucket.
func (s *MinIOStore) Upload(ctx context.Context, objectName string, reader io.Reader, size int64) error {
	if _, err := s.mc.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{}); err != nil {
		return fmt.Errorf("archive: upload %s: %w", objectName, err)
	}
	return nil
}

// Download opens objectName for streaming read.
func (s *MinIOStore) Download(ctx context.Context, objectName string) (io.ReadCloser, error) {
	obj, err := s.mc.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("archive: download %s: %w", objectName, err)
	}
	return obj, nil
}

// Bucket returns the configured bucket name.
func (s *MinIOStore) Bucket() string { return s.bucket }

// Export uploads the file at localPath under name, satisfying
// Destination so a MinIOStore and an S3Store are interchangeable
// snapshot targets.
func (s *MinIOStore) Export(ctx context.Context, name, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("archive: open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("archive: stat %s: %w", localPath, err)
	}
	return s.Upload(ctx, name, f, info.Size())
}

// ImportAll downloads every object under the bucket into destDir.
func (s *MinIOStore) ImportAll(ctx context.Context, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	for obj := range s.mc.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("archive: list objects: %w", obj.Err)
		}
		rc, err := s.Download(ctx, obj.Key)
		if err != nil {
			return err
		}
		if err := writeToFile(destDir, obj.Key, rc); err != nil {
			return err
		}
	}
	return nil
}

// writeToFile drains rc into destDir/filepath.Base(objectKey), creating
// parent directories as needed.
func writeToFile(destDir, objectKey string, rc io.ReadCloser) error {
	defer rc.Close()
	localPath := filepath.Join(destDir, filepath.Base(objectKey))
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, rc)
	return err
}

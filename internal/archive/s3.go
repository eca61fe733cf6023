package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the settings an S3Store needs (config.Config.S3, read
// from the S3_* environment variables).
// Endpoint, when set, points at an S3-compatible service (MinIO,
// LocalStack) rather than AWS.
type S3Config struct {
	Region   string
	Bucket   string
	Prefix   string
	Endpoint string
}

// S3Store exports/imports snapshot segments to a bucket using the AWS
// SDK, the same connector shape the teacher's ingestion S3 connector
// uses for its reverse (download) direction.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store loads AWS credentials from the default chain.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("archive: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = &cfg.Endpoint
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// Export uploads the compressed segment at localPath under name.
func (s *S3Store) Export(ctx context.Context, name, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("archive: open %s: %w", localPath, err)
	}
	defer f.Close()

	key := s.key(name)
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   f,
	}); err != nil {
		return fmt.Errorf("archive: export %s: %w", name, err)
	}
	return nil
}

// ImportAll downloads every object under the configured prefix into
// destDir, restoring a snapshot onto a fresh machine.
func (s *S3Store) ImportAll(ctx context.Context, destDir string) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: &s.prefix,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("archive: list objects: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || len(*obj.Key) == 0 || (*obj.Key)[len(*obj.Key)-1] == '/' {
				continue
			}
			if err := s.downloadObject(ctx, *obj.Key, filepath.Join(destDir, filepath.Base(*obj.Key))); err != nil {
				return fmt.Errorf("archive: download %s: %w", *obj.Key, err)
			}
		}
	}
	return nil
}

func (s *S3Store) downloadObject(ctx context.Context, key, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}

	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, resp.Body)
	return err
}

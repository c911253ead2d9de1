package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config names the bucket product images are uploaded to.
type S3Config struct {
	Region string
	Bucket string
	// PublicBaseURL is the prefix objects are served from (bucket website or CDN).
	// Defaults to the virtual-hosted bucket URL.
	PublicBaseURL string
	Prefix        string
}

// S3ImageStore uploads images to an S3 bucket.
type S3ImageStore struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3ImageStore loads the default AWS credential chain for cfg.Region.
func NewS3ImageStore(ctx context.Context, cfg S3Config) (*S3ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 image store requires a bucket")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	log.Printf("S3 image store initialized for bucket %s", cfg.Bucket)
	return &S3ImageStore{client: s3.NewFromConfig(awsCfg), cfg: cfg}, nil
}

// Save uploads r under a fresh object key and returns its public URL.
func (s *S3ImageStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	key := objectName(filename)
	if s.cfg.Prefix != "" {
		key = strings.Trim(s.cfg.Prefix, "/") + "/" + key
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}
	return s.cfg.PublicBaseURL + "/" + key, nil
}

// Delete removes the object behind url.
func (s *S3ImageStore) Delete(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, s.cfg.PublicBaseURL+"/")
	if key == url || key == "" {
		return fmt.Errorf("image %s is not served from bucket %s", url, s.cfg.Bucket)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image from S3: %w", err)
	}
	return nil
}

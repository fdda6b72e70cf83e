package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Storage uploads generated media to the S3-compatible bucket exposed by
// Supabase Storage and hands back public URLs.
type Storage struct {
	Bucket        string
	publicBaseURL string
	uploader      *manager.Uploader
}

// New configures Storage from STORAGE_* environment variables.
func New(ctx context.Context) (*Storage, error) {
	endpoint := os.Getenv("STORAGE_ENDPOINT")
	bucket := os.Getenv("STORAGE_BUCKET")
	if endpoint == "" || bucket == "" {
		return nil, fmt.Errorf("STORAGE_ENDPOINT and STORAGE_BUCKET must be set")
	}
	region := os.Getenv("STORAGE_REGION")
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("STORAGE_ACCESS_KEY_ID"),
			os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &Storage{
		Bucket:        bucket,
		publicBaseURL: os.Getenv("STORAGE_PUBLIC_URL"),
		uploader:      manager.NewUploader(client),
	}, nil
}

// Upload stores body under key and returns its public URL.
func (s *Storage) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// PublicURL is the anonymous download URL for key.
func (s *Storage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.publicBaseURL, "/"), s.Bucket, key)
}

// AudioKey names a slot's voice clip. The random suffix keeps retries from
// overwriting a clip a pending render may still reference.
func AudioKey(renderID uint, slot int) string {
	return fmt.Sprintf("renders/%d/%02d-%s.mp3", renderID, slot, uuid.NewString())
}

// Package storage downloads uploaded resumes from S3-compatible object storage (AWS S3, Cloudflare R2, MinIO).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jonathan/ats-tailor/internal/config"
)

// ErrObjectTooLarge is returned when an object exceeds the configured size cap.
var ErrObjectTooLarge = errors.New("object exceeds size limit")

// ObjectAPI is the subset of the S3 client used here.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Client reads objects from one bucket.
type Client struct {
	api      ObjectAPI
	bucket   string
	maxBytes int64
}

// New builds an S3 client from cfg. A non-empty Endpoint selects an S3-compatible
// service and path-style addressing.
func New(ctx context.Context, cfg config.StorageConfig) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithAPI(api, cfg.Bucket, cfg.MaxObjectBytes), nil
}

// NewWithAPI wraps an existing S3 API. maxBytes <= 0 disables the size cap.
func NewWithAPI(api ObjectAPI, bucket string, maxBytes int64) *Client {
	return &Client{api: api, bucket: bucket, maxBytes: maxBytes}
}

// Download reads an object fully into memory.
func (c *Client) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()

	if c.maxBytes > 0 && out.ContentLength != nil && *out.ContentLength > c.maxBytes {
		return nil, fmt.Errorf("%s: %w (%d > %d bytes)", key, ErrObjectTooLarge, *out.ContentLength, c.maxBytes)
	}

	var reader io.Reader = out.Body
	if c.maxBytes > 0 {
		reader = io.LimitReader(out.Body, c.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("%s: %w", key, ErrObjectTooLarge)
	}
	return data, nil
}

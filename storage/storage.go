// Package storage provides an S3-backed object store for the forensic image
// pipeline: fetch a source image, write a result image back, and hand out
// its public URL. It reproduces the read-transform-write-URL flow of the
// original Lambda handlers, one real S3 client instead of one per handler.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultBucket matches the bucket name hardcoded across the original
// handlers. Client.Bucket overrides it.
const DefaultBucket = "forensic-tools-s3-bucket"

// Client wraps an S3 client bound to one bucket.
type Client struct {
	s3     *s3.Client
	Bucket string
}

// New loads the default AWS config (environment, shared config, or
// instance role, in that order) and returns a Client bound to bucket. An
// empty bucket falls back to DefaultBucket.
func New(ctx context.Context, bucket string) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &Client{s3: s3.NewFromConfig(cfg), Bucket: bucket}, nil
}

// Get fetches the object at key and returns its raw bytes.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &c.Bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: get %q: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("storage: read %q: %w", key, err)
	}
	return data, nil
}

// Put writes data to key and returns its public URL, matching the
// `https://{bucket}.s3.amazonaws.com/{key}` shape the original handlers
// construct by hand.
func (c *Client) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &c.Bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage: put %q: %w", key, err)
	}
	return c.PublicURL(key), nil
}

// PublicURL returns the object's public S3 URL without checking that it
// exists.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.Bucket, key)
}

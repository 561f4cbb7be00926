package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v2/log"
)

// Client wraps the S3 client for marketplace object storage.
type Client struct {
	s3Client *s3.Client
	config   *Config
}

var (
	defaultClient *Client
	clientOnce    sync.Once
)

// NewClient creates a new S3 client from the given config.
func NewClient(cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("object storage is not configured")
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible providers need path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	return &Client{s3Client: s3Client, config: cfg}, nil
}

// GetClient returns the shared storage client, or nil when storage is not
// configured. Callers treat nil as "skip object deletes".
func GetClient() *Client {
	clientOnce.Do(func() {
		cfg := NewConfigFromEnv()
		if !cfg.IsEnabled() {
			log.Warn("[Storage] S3 credentials not configured, object operations disabled")
			return
		}
		c, err := NewClient(cfg)
		if err != nil {
			log.Errorf("[Storage] Failed to initialize S3 client: %v", err)
			return
		}
		defaultClient = c
	})
	return defaultClient
}

// DeleteObject deletes a single object from a bucket.
func (c *Client) DeleteObject(bucket, objectKey string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}

	log.Infof("[Storage] Deleted: s3://%s/%s", bucket, objectKey)
	return nil
}

// ObjectExists checks if an object exists in a bucket.
func (c *Client) ObjectExists(bucket, objectKey string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}

	return true, nil
}

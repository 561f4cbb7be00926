package storage

import (
	"strings"

	"github.com/ManuelReschke/PixelMarket/internal/pkg/env"
)

// Bucket names for the three object classes the marketplace stores.
const (
	BucketProductFiles = "S3_BUCKET_PRODUCT_FILES"
	BucketPreviews     = "S3_BUCKET_PREVIEWS"
	BucketAvatars      = "S3_BUCKET_AVATARS"
	BucketBackgrounds  = "S3_BUCKET_BACKGROUNDS"
)

// Config holds S3 connection settings loaded from the environment.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	EndpointURL     string
}

// NewConfigFromEnv loads the S3 configuration from environment variables.
func NewConfigFromEnv() *Config {
	return &Config{
		Region:          env.GetEnv("S3_REGION", "eu-central-1"),
		AccessKeyID:     strings.TrimSpace(env.GetEnv("S3_ACCESS_KEY_ID", "")),
		SecretAccessKey: strings.TrimSpace(env.GetEnv("S3_SECRET_ACCESS_KEY", "")),
		EndpointURL:     strings.TrimSpace(env.GetEnv("S3_ENDPOINT_URL", "")),
	}
}

// IsEnabled reports whether credentials are configured.
func (c *Config) IsEnabled() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// BucketName resolves a bucket env key to its configured name.
func BucketName(key string) string {
	switch key {
	case BucketProductFiles:
		return env.GetEnv(key, "pixelmarket-products")
	case BucketPreviews:
		return env.GetEnv(key, "pixelmarket-previews")
	case BucketAvatars:
		return env.GetEnv(key, "pixelmarket-avatars")
	case BucketBackgrounds:
		return env.GetEnv(key, "pixelmarket-backgrounds")
	default:
		return env.GetEnv(key, "")
	}
}

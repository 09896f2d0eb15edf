// Package storage publishes rendered CVs to object storage or the local static directory.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Provider represents the S3-compatible storage provider
type S3Provider string

const (
	S3ProviderAWS    S3Provider = "aws"
	S3ProviderWasabi S3Provider = "wasabi"
	S3ProviderCustom S3Provider = "custom"
)

// WasabiEndpoints maps regions to Wasabi endpoints
var WasabiEndpoints = map[string]string{
	"us-east-1":      "s3.us-east-1.wasabisys.com",
	"us-east-2":      "s3.us-east-2.wasabisys.com",
	"us-west-1":      "s3.us-west-1.wasabisys.com",
	"eu-central-1":   "s3.eu-central-1.wasabisys.com",
	"eu-west-1":      "s3.eu-west-1.wasabisys.com",
	"eu-west-2":      "s3.eu-west-2.wasabisys.com",
	"ap-northeast-1": "s3.ap-northeast-1.wasabisys.com",
	"ap-southeast-1": "s3.ap-southeast-1.wasabisys.com",
}

// S3Config holds configuration for S3-compatible storage
type S3Config struct {
	Provider        S3Provider
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	// Endpoint overrides the service URL ("https://minio.local:9000"). Wasabi
	// derives it from the region when empty.
	Endpoint string
	// PublicURL is the base used for returned object links when set.
	PublicURL string
	KeyPrefix string
}

// resolvedEndpoint returns the custom base endpoint, or "" for plain AWS.
func (c S3Config) resolvedEndpoint() string {
	if c.Endpoint != "" {
		if !strings.Contains(c.Endpoint, "://") {
			return "https://" + c.Endpoint
		}
		return c.Endpoint
	}
	if c.Provider == S3ProviderWasabi {
		if host, ok := WasabiEndpoints[c.Region]; ok {
			return "https://" + host
		}
		return "https://s3.wasabisys.com"
	}
	return ""
}

// ObjectURL builds the public link of key. S3 does not return one on upload.
func (c S3Config) ObjectURL(key string) string {
	escaped := escapeKey(key)
	if c.PublicURL != "" {
		return strings.TrimRight(c.PublicURL, "/") + "/" + escaped
	}
	if endpoint := c.resolvedEndpoint(); endpoint != "" {
		return strings.TrimRight(endpoint, "/") + "/" + c.Bucket + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.Bucket, c.Region, escaped)
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// NewS3Client creates an S3 client with the given config.
// Non-AWS providers use a custom endpoint and path-style addressing.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
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

	endpoint := cfg.resolvedEndpoint()
	if endpoint == "" {
		return s3.NewFromConfig(awsCfg), nil
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}), nil
}

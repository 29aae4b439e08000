// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage implements the asset provider on top of any S3-compatible
object store (AWS S3, MinIO, Cloudflare R2).

Uploaded files get an opaque, collision-free object key. That key is the
asset's public ID and is what Delete later receives.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/taibuivan/vidstream/internal/users/auth"
	"github.com/taibuivan/vidstream/pkg/uuid"
)

// Overridable constructors, replaced in tests.
var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// keyPrefix groups every uploaded asset under one folder of the bucket.
const keyPrefix = "vidstream"

// ObjectAPI is the subset of the S3 client used by [S3Provider].
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Options configures the S3 connection.
type Options struct {
	Bucket    string
	Region    string
	Endpoint  string // custom endpoint for MinIO/R2; empty means AWS
	AccessKey string
	SecretKey string
	PublicURL string // base URL assets are served from; derived when empty
}

// S3Provider uploads local files and deletes stored objects.
type S3Provider struct {
	client  ObjectAPI
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// NewS3Provider builds the AWS client from opts.
func NewS3Provider(ctx context.Context, opts Options, logger *slog.Logger) (*S3Provider, error) {
	if opts.Bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}

	loadOptions := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOptions = append(loadOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("object_storage_configured",
		slog.String("bucket", opts.Bucket),
		slog.String("region", opts.Region),
		slog.Bool("custom_endpoint", opts.Endpoint != ""),
	)

	return NewS3ProviderWithClient(client, opts, logger), nil
}

// NewS3ProviderWithClient wires an existing client.
func NewS3ProviderWithClient(client ObjectAPI, opts Options, logger *slog.Logger) *S3Provider {
	return &S3Provider{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: publicBaseURL(opts),
		logger:  logger,
	}
}

/*
Upload stores the file at localPath and returns its public reference.

Parameters:
  - ctx: context.Context
  - localPath: string (staged upload on local disk)

Returns:
  - *auth.Asset: Public URL and object key
  - error: Unreadable file or store failure
*/
func (provider *S3Provider) Upload(ctx context.Context, localPath string) (*auth.Asset, error) {
	if localPath == "" {
		return nil, errors.New("storage: empty local path")
	}

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("storage_open_failed: %w", err)
	}
	defer file.Close()

	extension := strings.ToLower(filepath.Ext(localPath))
	key := path.Join(keyPrefix, uuid.New()+extension)

	contentType := mime.TypeByExtension(extension)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = provider.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(provider.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("storage_put_object_failed: %w", err)
	}

	provider.logger.DebugContext(ctx, "asset_uploaded", slog.String("key", key))

	return &auth.Asset{URL: provider.baseURL + "/" + key, PublicID: key}, nil
}

// Delete removes the object with the given public ID. Blank IDs are a no-op.
func (provider *S3Provider) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	_, err := provider.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(provider.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("storage_delete_object_failed: %w", err)
	}

	provider.logger.DebugContext(ctx, "asset_deleted", slog.String("key", publicID))
	return nil
}

// publicBaseURL derives where objects are served from when no CDN URL is configured.
func publicBaseURL(opts Options) string {
	switch {
	case opts.PublicURL != "":
		return strings.TrimRight(opts.PublicURL, "/")
	case opts.Endpoint != "":
		return strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
	}
}

// Package publish uploads delivered artifacts to S3-compatible object storage.
package publish

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

// S3API is the subset of the S3 client used for publishing.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures the destination bucket.
type Options struct {
	Bucket string
	// Prefix is prepended to every object key.
	Prefix string
	Region string
	// Endpoint overrides the S3 endpoint for compatible stores (MinIO, R2).
	Endpoint       string
	ForcePathStyle bool
}

// Result describes an uploaded artifact.
type Result struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	URI         string `json:"uri"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	SHA256      string `json:"sha256"`
}

// Uploader puts artifacts into a bucket.
type Uploader struct {
	client S3API
	opts   Options
	logger zerolog.Logger
}

// New creates an Uploader using the default AWS credential chain.
func New(ctx context.Context, opts Options, logger zerolog.Logger) (*Uploader, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("bucket is required: %w", lerrors.ErrConfigInvalid)
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, lerrors.Wrap(err, "failed to load AWS configuration")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.ForcePathStyle
	})

	return NewWithClient(client, opts, logger), nil
}

// NewWithClient creates an Uploader around an existing client.
func NewWithClient(client S3API, opts Options, logger zerolog.Logger) *Uploader {
	return &Uploader{client: client, opts: opts, logger: logger}
}

// Key returns the object key for an artifact:
// <prefix>/<app-slug>/<version>/<file-slug><ext>.
func (u *Uploader) Key(artifactPath, appName, version string) string {
	base := filepath.Base(artifactPath)
	ext := strings.ToLower(filepath.Ext(base))
	name := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))

	parts := make([]string, 0, 4)
	if p := strings.Trim(u.opts.Prefix, "/"); p != "" {
		parts = append(parts, p)
	}
	parts = append(parts, slug.Make(appName), version, name+ext)
	return path.Join(parts...)
}

// Upload puts the artifact at artifactPath into the bucket.
func (u *Uploader) Upload(ctx context.Context, artifactPath, appName, version string) (*Result, error) {
	f, err := os.Open(artifactPath) //nolint:gosec // path comes from the package stage
	if err != nil {
		return nil, fmt.Errorf("%s: %w", artifactPath, lerrors.ErrArtifactNotFound)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, lerrors.Wrapf(err, "failed to stat %s", artifactPath)
	}

	sum, err := digest(f)
	if err != nil {
		return nil, lerrors.Wrapf(err, "failed to hash %s", artifactPath)
	}

	contentType := "application/octet-stream"
	if mt, mtErr := mimetype.DetectFile(artifactPath); mtErr == nil {
		contentType = mt.String()
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, lerrors.Wrapf(err, "failed to rewind %s", artifactPath)
	}

	key := u.Key(artifactPath, appName, version)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.opts.Bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
		Metadata: map[string]string{
			"version": version,
			"sha256":  sum,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("s3://%s/%s: %w: %w", u.opts.Bucket, key, lerrors.ErrPublishFailed, err)
	}

	result := &Result{
		Bucket:      u.opts.Bucket,
		Key:         key,
		URI:         "s3://" + u.opts.Bucket + "/" + key,
		ContentType: contentType,
		Size:        info.Size(),
		SHA256:      sum,
	}

	u.logger.Info().
		Str("uri", result.URI).
		Int64("size", result.Size).
		Str("content_type", contentType).
		Msg("artifact published")

	return result, nil
}

func digest(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

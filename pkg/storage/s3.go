package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// immutable is the Cache-Control of every object: keys embed a content
// hash, so an object never changes once written.
const immutable = "public, max-age=31536000, immutable"

// S3Client is the part of *s3.Client that S3Storage calls.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Config struct {
	Bucket         string
	Region         string
	AccessKeyID    string
	SecretKey      string
	Endpoint       string // S3-compatible services only
	BaseURL        string // public URL prefix, e.g. a CDN
	ForcePathStyle bool   // MinIO and similar
}

// publicBase returns the URL prefix objects are served from.
func (c S3Config) publicBase() string {
	switch {
	case c.BaseURL != "":
		return withSlash(c.BaseURL)
	case c.Endpoint != "":
		return strings.TrimSuffix(c.Endpoint, "/") + "/" + c.Bucket + "/"
	default:
		return "https://" + c.Bucket + ".s3." + c.Region + ".amazonaws.com/"
	}
}

// S3Storage keeps artifacts in an S3 bucket. It is safe for concurrent use.
type S3Storage struct {
	client  S3Client
	bucket  string
	base    string
	timeout time.Duration
}

type S3Option func(*s3Setup)

type s3Setup struct {
	client  S3Client
	http    *http.Client
	extra   []func(*config.LoadOptions) error
	timeout time.Duration
}

// WithS3Client skips AWS config loading and uses client as is.
func WithS3Client(client S3Client) S3Option {
	return func(s *s3Setup) { s.client = client }
}

func WithHTTPClient(client *http.Client) S3Option {
	return func(s *s3Setup) { s.http = client }
}

// WithS3ConfigOption passes an extra option to config.LoadDefaultConfig.
func WithS3ConfigOption(option func(*config.LoadOptions) error) S3Option {
	return func(s *s3Setup) { s.extra = append(s.extra, option) }
}

// WithS3UploadTimeout bounds every Put.
func WithS3UploadTimeout(d time.Duration) S3Option {
	return func(s *s3Setup) { s.timeout = d }
}

// NewS3Storage requires a bucket and a region. Without WithS3Client it
// loads the default AWS configuration, using static credentials when both
// keys are set.
func NewS3Storage(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}
	var setup s3Setup
	for _, opt := range opts {
		opt(&setup)
	}
	if setup.client == nil {
		client, err := loadS3Client(ctx, cfg, setup)
		if err != nil {
			return nil, err
		}
		setup.client = client
	}
	return &S3Storage{
		client:  setup.client,
		bucket:  cfg.Bucket,
		base:    cfg.publicBase(),
		timeout: setup.timeout,
	}, nil
}

func loadS3Client(ctx context.Context, cfg S3Config, setup s3Setup) (*s3.Client, error) {
	load := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")
		load = append(load, config.WithCredentialsProvider(creds))
	}
	if setup.http != nil {
		load = append(load, config.WithHTTPClient(setup.http))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, append(load, setup.extra...)...)
	if err != nil {
		return nil, errors.Join(ErrAWSConfig, err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}), nil
}

func (s *S3Storage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   &contentType,
		CacheControl:  aws.String(immutable),
	})
	if err != nil {
		return errors.Join(ErrWrite, s3Cause("put", err))
	}
	return nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key}); err != nil {
		return errors.Join(ErrDelete, s3Cause("delete", err))
	}
	return nil
}

func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	key, err := cleanKey(key)
	if err != nil {
		return false, err
	}
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key})
	var (
		notFound *types.NotFound
		noKey    *types.NoSuchKey
	)
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &notFound), errors.As(err, &noKey):
		return false, nil
	default:
		return false, s3Cause("head", err)
	}
}

func (s *S3Storage) URL(key string) string {
	return s.base + strings.TrimPrefix(key, "/")
}

// s3Codes maps S3 API error codes onto package errors.
var s3Codes = map[string]error{
	"AccessDenied":       ErrAccessDenied,
	"NoSuchBucket":       ErrBucketNotFound,
	"SlowDown":           ErrServiceUnavailable,
	"ServiceUnavailable": ErrServiceUnavailable,
	"RequestTimeout":     ErrServiceUnavailable,
}

// s3Cause translates an SDK error for op into one of the package errors,
// keeping the original error when nothing matches.
func s3Cause(op string, err error) error {
	var (
		noBucket *types.NoSuchBucket
		apiErr   smithy.APIError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s", ErrTimeout, op)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %s", ErrCanceled, op)
	case errors.As(err, &noBucket):
		return ErrBucketNotFound
	case errors.As(err, &apiErr):
		if known, ok := s3Codes[apiErr.ErrorCode()]; ok {
			return fmt.Errorf("%w: %s", known, op)
		}
		return fmt.Errorf("s3 %s: %s: %w", op, apiErr.ErrorCode(), err)
	default:
		return fmt.Errorf("s3 %s: %w", op, err)
	}
}

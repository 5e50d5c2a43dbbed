package storage_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qrforge/qrforge/pkg/storage"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (m *MockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func newS3(t *testing.T, client storage.S3Client, cfg storage.S3Config) *storage.S3Storage {
	t.Helper()
	if cfg.Bucket == "" {
		cfg.Bucket = "codes"
	}
	if cfg.Region == "" {
		cfg.Region = "eu-west-1"
	}
	s, err := storage.NewS3Storage(context.Background(), cfg, storage.WithS3Client(client))
	require.NoError(t, err)
	return s
}

func TestNewS3Storage_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := storage.NewS3Storage(context.Background(), storage.S3Config{Region: "eu-west-1"})
	assert.ErrorIs(t, err, storage.ErrInvalidConfig)

	_, err = storage.NewS3Storage(context.Background(), storage.S3Config{Bucket: "codes"})
	assert.ErrorIs(t, err, storage.ErrInvalidConfig)
}

func TestS3Storage_URL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  storage.S3Config
		want string
	}{
		{"aws default", storage.S3Config{}, "https://codes.s3.eu-west-1.amazonaws.com/a/b.png"},
		{"custom endpoint", storage.S3Config{Endpoint: "http://minio:9000/"}, "http://minio:9000/codes/a/b.png"},
		{"public base", storage.S3Config{BaseURL: "https://cdn.example.com"}, "https://cdn.example.com/a/b.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newS3(t, new(MockS3Client), tt.cfg)
			assert.Equal(t, tt.want, s.URL("/a/b.png"))
		})
	}
}

func TestS3Storage_Put(t *testing.T) {
	t.Parallel()

	client := new(MockS3Client)
	s := newS3(t, client, storage.S3Config{})

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "codes" &&
			aws.ToString(in.Key) == "codes/abc.png" &&
			aws.ToString(in.ContentType) == "image/png" &&
			aws.ToInt64(in.ContentLength) == 3 &&
			aws.ToString(in.CacheControl) == "public, max-age=31536000, immutable" &&
			string(body) == "png"
	}), mock.Anything).Return(&s3.PutObjectOutput{}, nil).Once()

	require.NoError(t, s.Put(context.Background(), "codes/abc.png", []byte("png"), "image/png"))
	client.AssertExpectations(t)
}

func TestS3Storage_Put_InvalidKey(t *testing.T) {
	t.Parallel()

	client := new(MockS3Client)
	s := newS3(t, client, storage.S3Config{})

	for _, key := range []string{"", "  ", "../etc/passwd", "a\\b"} {
		assert.ErrorIs(t, s.Put(context.Background(), key, nil, "image/png"), storage.ErrInvalidKey, key)
	}
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything)
}

func TestS3Storage_Put_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, storage.ErrAccessDenied},
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, storage.ErrServiceUnavailable},
		{"no bucket", &types.NoSuchBucket{}, storage.ErrBucketNotFound},
		{"timeout", context.DeadlineExceeded, storage.ErrTimeout},
		{"canceled", context.Canceled, storage.ErrCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := new(MockS3Client)
			s := newS3(t, client, storage.S3Config{})
			client.On("PutObject", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			err := s.Put(context.Background(), "k.png", []byte("x"), "image/png")
			assert.ErrorIs(t, err, storage.ErrWrite)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestS3Storage_Exists(t *testing.T) {
	t.Parallel()

	client := new(MockS3Client)
	s := newS3(t, client, storage.S3Config{})

	client.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return aws.ToString(in.Key) == "present.png"
	}), mock.Anything).Return(&s3.HeadObjectOutput{}, nil)
	client.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return aws.ToString(in.Key) == "missing.png"
	}), mock.Anything).Return(nil, &types.NotFound{})
	client.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return aws.ToString(in.Key) == "denied.png"
	}), mock.Anything).Return(nil, &smithy.GenericAPIError{Code: "AccessDenied"})

	ok, err := s.Exists(context.Background(), "present.png")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(context.Background(), "missing.png")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Exists(context.Background(), "denied.png")
	assert.ErrorIs(t, err, storage.ErrAccessDenied)
}

func TestS3Storage_Delete(t *testing.T) {
	t.Parallel()

	client := new(MockS3Client)
	s := newS3(t, client, storage.S3Config{})

	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "a.png"
	}), mock.Anything).Return(&s3.DeleteObjectOutput{}, nil).Once()
	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "b.png"
	}), mock.Anything).Return(nil, errors.New("boom")).Once()

	require.NoError(t, s.Delete(context.Background(), "a.png"))
	assert.ErrorIs(t, s.Delete(context.Background(), "b.png"), storage.ErrDelete)
	client.AssertExpectations(t)
}

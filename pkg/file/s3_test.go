package file_test

import (
	"bytes"
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

	"github.com/dmitrymomot/forgekit/pkg/file"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (m *MockS3Client) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.ListObjectsV2Output), args.Error(1)
}

func newS3(t *testing.T, client *MockS3Client, prefix string, opts ...file.S3Option) *file.S3Storage {
	t.Helper()
	opts = append(opts, file.WithS3Client(client))
	s, err := file.NewS3Storage(context.Background(), file.S3Config{
		Bucket: "forge-templates",
		Region: "eu-central-1",
		Prefix: prefix,
	}, opts...)
	require.NoError(t, err)
	return s
}

func TestNewS3Storage_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := file.NewS3Storage(context.Background(), file.S3Config{Region: "eu-central-1"})
	assert.ErrorIs(t, err, file.ErrInvalidConfig)

	_, err = file.NewS3Storage(context.Background(), file.S3Config{Bucket: "b", Region: "r", Prefix: "../x"},
		file.WithS3Client(&MockS3Client{}))
	assert.ErrorIs(t, err, file.ErrInvalidConfig)
}

func TestS3Storage_Read(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &MockS3Client{}
	client.On("GetObject", ctx, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Bucket) == "forge-templates" && aws.ToString(in.Key) == "v2/templates/backend/package.json"
	})).Return(&s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader([]byte(`{"name":"base"}`))),
		ContentLength: aws.Int64(15),
	}, nil)
	client.On("GetObject", ctx, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "v2/templates/web/package.json"
	})).Return(nil, &types.NoSuchKey{})

	s := newS3(t, client, "v2")

	data, err := s.Read(ctx, "templates/backend/package.json")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"base"}`, string(data))

	_, err = s.Read(ctx, "/templates/web/package.json")
	assert.ErrorIs(t, err, file.ErrFileNotFound)

	_, err = s.Read(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, file.ErrInvalidPath)

	client.AssertExpectations(t)
}

func TestS3Storage_ReadTooLarge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &MockS3Client{}
	client.On("GetObject", ctx, mock.Anything).Return(&s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader([]byte("123456"))),
	}, nil)

	s := newS3(t, client, "", file.WithS3MaxReadSize(5))
	_, err := s.Read(ctx, "big.json")
	assert.ErrorIs(t, err, file.ErrFileTooLarge)
}

func TestS3Storage_Write(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &MockS3Client{}
	client.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Key) == "out/acme/package.json" &&
			aws.ToString(in.ContentType) == "application/json" &&
			aws.ToInt64(in.ContentLength) == 3
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	s := newS3(t, client, "")
	require.NoError(t, s.Write(ctx, "out/acme/package.json", []byte("{}\n")))
	assert.ErrorIs(t, s.Write(ctx, "", []byte("x")), file.ErrIsDirectory)
	client.AssertExpectations(t)
}

func TestS3Storage_Exists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &MockS3Client{}
	client.On("HeadObject", ctx, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return aws.ToString(in.Key) == "present.json"
	})).Return(&s3.HeadObjectOutput{}, nil)
	client.On("HeadObject", ctx, mock.Anything).Return(nil, &smithy.GenericAPIError{Code: "NotFound"})

	s := newS3(t, client, "")
	assert.True(t, s.Exists(ctx, "present.json"))
	assert.False(t, s.Exists(ctx, "absent.json"))
}

func TestS3Storage_ListPaginates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &MockS3Client{}
	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.Prefix) == "templates/" && in.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		CommonPrefixes:        []types.CommonPrefix{{Prefix: aws.String("templates/backend/")}},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("page-2"),
	}, nil).Once()
	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.ContinuationToken) == "page-2"
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("templates/"), Size: aws.Int64(0)},
			{Key: aws.String("templates/README.md"), Size: aws.Int64(11)},
		},
		IsTruncated: aws.Bool(false),
	}, nil).Once()

	s := newS3(t, client, "")
	entries, err := s.List(ctx, "templates")
	require.NoError(t, err)
	assert.Equal(t, []file.Entry{
		{Name: "backend", Path: "templates/backend", IsDir: true},
		{Name: "README.md", Path: "templates/README.md", Size: 11},
	}, entries)
	client.AssertExpectations(t)
}

func TestS3Storage_ListEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &MockS3Client{}
	client.On("ListObjectsV2", mock.Anything, mock.Anything).Return(&s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}, nil)

	s := newS3(t, client, "")
	_, err := s.List(ctx, "nothing")
	assert.ErrorIs(t, err, file.ErrDirectoryNotFound)
}

func TestS3Storage_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, file.ErrAccessDenied},
		{"throttled", &smithy.GenericAPIError{Code: "SlowDown"}, file.ErrServiceUnavailable},
		{"no bucket", &types.NoSuchBucket{}, file.ErrBucketNotFound},
		{"deadline", context.DeadlineExceeded, file.ErrOperationTimeout},
		{"canceled", context.Canceled, file.ErrOperationCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			client := &MockS3Client{}
			client.On("GetObject", ctx, mock.Anything).Return(nil, tt.err)

			s := newS3(t, client, "")
			_, err := s.Read(ctx, "x.json")
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unknown code keeps cause", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		cause := &smithy.GenericAPIError{Code: "Weird"}
		client := &MockS3Client{}
		client.On("GetObject", ctx, mock.Anything).Return(nil, cause)

		s := newS3(t, client, "")
		_, err := s.Read(ctx, "x.json")
		var apiErr smithy.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Weird", apiErr.ErrorCode())
	})
}

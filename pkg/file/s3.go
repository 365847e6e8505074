package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Client is the subset of *s3.Client used by S3Storage.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Config configures S3Storage. Endpoint and ForcePathStyle target
// S3-compatible services such as MinIO.
type S3Config struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
	// Prefix is prepended to every key, e.g. "templates/v2".
	Prefix string `env:"S3_PREFIX"`
}

// S3Storage serves files from an S3 bucket. It is safe for concurrent use.
type S3Storage struct {
	client      S3Client
	bucket      string
	prefix      string
	maxReadSize int64
}

type S3Option func(*s3Options)

type s3Options struct {
	client        S3Client
	httpClient    *http.Client
	clientOptions []func(*s3.Options)
	maxReadSize   int64
}

// WithS3Client injects a pre-configured client, typically a test double.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) {
		o.client = client
	}
}

func WithHTTPClient(client *http.Client) S3Option {
	return func(o *s3Options) {
		o.httpClient = client
	}
}

func WithS3ClientOption(fn func(*s3.Options)) S3Option {
	return func(o *s3Options) {
		o.clientOptions = append(o.clientOptions, fn)
	}
}

// WithS3MaxReadSize overrides DefaultMaxReadSize.
func WithS3MaxReadSize(n int64) S3Option {
	return func(o *s3Options) {
		o.maxReadSize = n
	}
}

func NewS3Storage(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: bucket and region are required", ErrInvalidConfig)
	}

	o := &s3Options{maxReadSize: DefaultMaxReadSize}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		if o.httpClient != nil {
			loadOpts = append(loadOpts, config.WithHTTPClient(o.httpClient))
		}

		awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.Join(ErrFailedToLoadConfig, err)
		}
		client = s3.NewFromConfig(awsCfg, func(so *s3.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
			for _, fn := range o.clientOptions {
				fn(so)
			}
		})
	}

	prefix, err := cleanKey(cfg.Prefix)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return &S3Storage{
		client:      client,
		bucket:      cfg.Bucket,
		prefix:      prefix,
		maxReadSize: o.maxReadSize,
	}, nil
}

func (s *S3Storage) Read(ctx context.Context, p string) ([]byte, error) {
	key, err := s.key(p)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error(err, "read "+p)
	}
	defer func() { _ = out.Body.Close() }()

	if out.ContentLength != nil && *out.ContentLength > s.maxReadSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, p)
	}
	data, err := io.ReadAll(io.LimitReader(out.Body, s.maxReadSize+1))
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	if int64(len(data)) > s.maxReadSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, p)
	}
	return data, nil
}

func (s *S3Storage) Write(ctx context.Context, p string, data []byte) error {
	key, err := s.key(p)
	if err != nil {
		return err
	}
	if key == s.prefix {
		return fmt.Errorf("%w: %s", ErrIsDirectory, p)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(key)),
	})
	if err != nil {
		return classifyS3Error(err, "write "+p)
	}
	return nil
}

func (s *S3Storage) Exists(ctx context.Context, p string) bool {
	key, err := s.key(p)
	if err != nil {
		return false
	}
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

// List walks every page of the delimited listing under dir.
func (s *S3Storage) List(ctx context.Context, dir string) ([]Entry, error) {
	key, err := s.key(dir)
	if err != nil {
		return nil, err
	}
	prefix := key
	if prefix != "" {
		prefix += "/"
	}
	rel, _ := cleanKey(dir)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	var entries []Entry
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyS3Error(err, "list "+dir)
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
			entries = append(entries, Entry{Name: name, Path: path.Join(rel, name), IsDir: true})
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			entries = append(entries, Entry{Name: name, Path: path.Join(rel, name), Size: aws.ToInt64(obj.Size)})
		}
	}

	if len(entries) == 0 && rel != "" {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}
	return entries, nil
}

func (s *S3Storage) key(p string) (string, error) {
	key, err := cleanKey(p)
	if err != nil {
		return "", err
	}
	return path.Join(s.prefix, key), nil
}

func contentType(key string) string {
	switch path.Ext(key) {
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}

// classifyS3Error maps SDK errors onto package sentinels.
func classifyS3Error(err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrOperationTimeout, op)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s", ErrOperationCanceled, op)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, op)
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, op)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s", ErrFileNotFound, op)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %s", ErrBucketNotFound, op)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %s", ErrAccessDenied, op)
		case "RequestTimeout":
			return fmt.Errorf("%w: %s", ErrRequestTimeout, op)
		case "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %s", ErrServiceUnavailable, op)
		}
		return fmt.Errorf("%s failed (code: %s): %w", op, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/and161185/portfolio-api/internal/errs"
)

// S3Config configures an S3 or S3-compatible (MinIO) bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, e.g. "http://127.0.0.1:9000"
	AccessKey string // optional; default credential chain when empty
	SecretKey string
}

// S3API is the part of *s3.Client the store uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 stores artifacts as objects in a bucket.
type S3 struct {
	client S3API
	bucket string
}

// NewS3FromClient wraps an existing client, e.g. one shared with other components.
func NewS3FromClient(client S3API, bucket string) *S3 {
	return &S3{client: client, bucket: bucket}
}

// NewS3 builds a client from the default AWS config chain plus cfg overrides.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: empty bucket")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3FromClient(client, cfg.Bucket), nil
}

// Save uploads r as a new object. The body is streamed; multipart uploads are seekable.
func (s *S3) Save(ctx context.Context, key string, r io.Reader) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(k),
		Body:        r,
		IfNoneMatch: aws.String("*"),
	}
	if ct := mime.TypeByExtension(path.Ext(k)); ct != "" {
		in.ContentType = aws.String(ct)
	}
	_, err = s.client.PutObject(ctx, in)
	return err
}

// Remove deletes the object. S3 deletes are idempotent.
func (s *S3) Remove(ctx context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(k),
	})
	return err
}

// Artifact is an opened stored object.
type Artifact struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64 // -1 when unknown
}

// Open streams the object behind key. A missing object or a bad key yields errs.ErrNotFound.
func (s *S3) Open(ctx context.Context, key string) (*Artifact, error) {
	k, err := cleanKey(key)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(k),
	})
	var missing *types.NoSuchKey
	if errors.As(err, &missing) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", errs.ErrStorage, k, err)
	}
	a := &Artifact{Body: out.Body, ContentType: aws.ToString(out.ContentType), Size: -1}
	if out.ContentLength != nil {
		a.Size = *out.ContentLength
	}
	if a.ContentType == "" {
		a.ContentType = mime.TypeByExtension(path.Ext(k))
	}
	return a, nil
}

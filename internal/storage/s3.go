package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Config holds connection settings for an S3-compatible object store.
// Endpoint and ForcePathStyle support MinIO for local development.
type S3Config struct {
	Bucket         string
	Region         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// S3Backend stores objects in an S3-compatible bucket.
type S3Backend struct {
	client   *s3.S3
	uploader *s3manager.Uploader
	bucket   string
}

// NewS3Backend creates a backend over an S3 bucket.
func NewS3Backend(cfg S3Config) (*S3Backend, error) {
	awsConfig := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.ForcePathStyle {
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("creating S3 session: %w", err)
	}

	return &S3Backend{
		client:   s3.New(sess),
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
	}, nil
}

// Put uploads an object. The uploader buffers in parts, so a read failure
// aborts the multipart upload and leaves nothing behind.
func (b *S3Backend) Put(ctx context.Context, subfolder, name string, r io.Reader, contentType string) error {
	input := &s3manager.UploadInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(path.Join(subfolder, name)),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := b.uploader.UploadWithContext(ctx, input); err != nil {
		return unwrapUploadError(err)
	}
	return nil
}

// Delete removes an object from the bucket.
func (b *S3Backend) Delete(ctx context.Context, subfolder, name string) error {
	_, err := b.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(path.Join(subfolder, name)),
	})
	return err
}

// unwrapUploadError surfaces the reader's own error when the SDK wrapped it,
// so size-limit failures keep their identity.
func unwrapUploadError(err error) error {
	type causer interface{ OrigErr() error }
	if c, ok := err.(causer); ok && c.OrigErr() != nil {
		return c.OrigErr()
	}
	return err
}

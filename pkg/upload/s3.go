package upload

import (
	"context"

	"github.com/arthur-debert/pubmirror/pkg/config"
	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options tunes the multipart uploads of one S3 client.
type S3Options struct {
	// PartSize is the multipart chunk size in bytes.
	PartSize int64

	// PartConcurrency bounds the parts of one file sent in parallel.
	PartConcurrency int
}

// S3Uploader stores objects through the S3 upload manager, which switches
// to multipart uploads for large files.
type S3Uploader struct {
	uploader *manager.Uploader
}

// Upload implements Uploader.
func (u *S3Uploader) Upload(ctx context.Context, obj Object) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(obj.Bucket),
		Key:    aws.String(obj.Key),
		Body:   obj.Body,
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}
	_, err := u.uploader.Upload(ctx, input)
	return err
}

// NewS3Client builds an S3 client for a configured disk. Static credentials
// are used when the disk sets both key and secret; otherwise the default
// AWS credential chain applies.
func NewS3Client(ctx context.Context, disk config.DiskConfig) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if disk.Region != "" {
		opts = append(opts, awsconfig.WithRegion(disk.Region))
	}
	if disk.Key != "" && disk.Secret != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(disk.Key, disk.Secret, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrUploadClient, "load aws config").
			WithDetail("bucket", disk.Bucket)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if disk.Endpoint != "" {
			o.BaseEndpoint = aws.String(disk.Endpoint)
		}
		o.UsePathStyle = disk.UsePathStyle
	}), nil
}

// NewS3Factory returns a ClientFactory building a new S3 client, and with it
// a new session, on every call.
func NewS3Factory(disk config.DiskConfig, opts S3Options) ClientFactory {
	return func(ctx context.Context) (Uploader, error) {
		client, err := NewS3Client(ctx, disk)
		if err != nil {
			return nil, err
		}
		return &S3Uploader{
			uploader: manager.NewUploader(client, func(u *manager.Uploader) {
				if opts.PartSize >= manager.MinUploadPartSize {
					u.PartSize = opts.PartSize
				}
				if opts.PartConcurrency > 0 {
					u.Concurrency = opts.PartConcurrency
				}
			}),
		}, nil
	}
}

package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the slice of the S3 client the sink needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ObjectStorageSink uploads documents to an S3-compatible bucket with a
// single PUT per write.
type ObjectStorageSink struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewObjectStorageSink writes to bucket under prefix.
func NewObjectStorageSink(client PutObjectAPI, bucket, prefix string) *ObjectStorageSink {
	return &ObjectStorageSink{client: client, bucket: bucket, prefix: prefix}
}

// NewS3Client builds a client from the default AWS credential chain. A
// non-empty endpoint targets an S3-compatible store with path-style URLs.
func NewS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Name implements ResultSink.
func (s *ObjectStorageSink) Name() string { return "s3" }

// Key returns the object key used for name.
func (s *ObjectStorageSink) Key(name string) string { return s.prefix + name }

// Write implements ResultSink.
func (s *ObjectStorageSink) Write(ctx context.Context, name string, v any) error {
	body, err := Encode(v)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(name)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("%w: s3://%s/%s: %w", ErrWrite, s.bucket, s.Key(name), err)
	}
	return nil
}

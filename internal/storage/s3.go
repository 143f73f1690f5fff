package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BlobSink is a write-once store for raw click payloads.
type BlobSink interface {
	Put(ctx context.Context, key string, data []byte) error
}

// S3Sink writes blobs to an S3 (or S3-compatible) bucket.
type S3Sink struct {
	client *s3.Client
	bucket string
}

// NewS3Sink builds an S3 sink. Empty accessKey falls back to the default
// credential chain. A non-empty endpoint switches to path-style
// addressing for S3-compatible services such as MinIO.
func NewS3Sink(ctx context.Context, region, bucket, endpoint, accessKey, secretKey string) (*S3Sink, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is not set")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Sink{client: client, bucket: bucket}, nil
}

// Put stores one JSON blob under the given key.
func (s *S3Sink) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

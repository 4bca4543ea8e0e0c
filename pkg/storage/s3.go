package storage

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Source reads objects from S3-compatible storage.
type S3Source struct {
	client *s3.Client
}

// NewS3Source builds an S3 client from static credentials.
func NewS3Source(cfg S3Config) (*S3Source, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, ErrInvalidConfig
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		},
	}
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &S3Source{client: s3.New(s3.Options{}, opts...)}, nil
}

// object is an open remote body with the metadata the fetcher needs.
type object struct {
	body          io.ReadCloser
	contentType   string
	contentLength int64
}

// open starts reading bucket/key. The caller closes the body.
func (s *S3Source) open(ctx context.Context, bucket, key string) (*object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrDownloadFailed)
	}
	return &object{
		body:          out.Body,
		contentType:   aws.ToString(out.ContentType),
		contentLength: aws.ToInt64(out.ContentLength),
	}, nil
}

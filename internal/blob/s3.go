package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/printscript/snippet-manager/internal/apperror"
)

var _ Store = (*S3Store)(nil)

// S3Config configures the bucket backend. With Endpoint set, the client
// talks to any S3-compatible server (MinIO and friends) using static
// credentials; left empty, the standard AWS credential chain applies.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // e.g. "http://127.0.0.1:9000", empty for AWS
	AccessKey string
	SecretKey string
}

// S3Store holds snippet code bodies as bucket objects keyed by snippet id.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store builds the client and returns the store. It does not probe
// the bucket; a misconfiguration surfaces on the first operation.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("blob: S3 bucket name is required")
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(aws.Config{Region: cfg.Region}, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		})
	} else {
		sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("blob: loading AWS configuration: %w", err)
		}
		client = s3.NewFromConfig(sdkConfig)
	}

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads the content under key, overwriting any previous object.
func (s *S3Store) Put(ctx context.Context, key string, content []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		return fmt.Errorf("blob: putting %s to bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

// Get downloads the content stored under key.
// Returns apperror.ErrNotFound if no object exists.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, apperror.NotFound("code body", key)
		}
		return nil, fmt.Errorf("blob: getting %s from bucket %s: %w", key, s.bucket, err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("blob: reading %s from bucket %s: %w", key, s.bucket, err)
	}
	return content, nil
}

// Delete removes the object under key. S3 delete is idempotent: deleting
// a missing key succeeds.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("blob: deleting %s from bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

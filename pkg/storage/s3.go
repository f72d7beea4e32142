package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

type s3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Options configures the S3 backed store.
type S3Options struct {
	Region         string
	Endpoint       string
	PublicBaseURL  string
	ForcePathStyle bool
}

// S3Store implements ObjectStore on top of an S3 compatible service.
type S3Store struct {
	client    s3API
	presigner s3Presigner
	opts      S3Options
	now       func() time.Time
}

// NewS3Store loads the default AWS credential chain and builds the client.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.ForcePathStyle
	})

	return newS3Store(client, s3.NewPresignClient(client), opts), nil
}

func newS3Store(client s3API, presigner s3Presigner, opts S3Options) *S3Store {
	return &S3Store{client: client, presigner: presigner, opts: opts, now: time.Now}
}

// Put uploads body with If-None-Match so existing keys are never replaced.
func (s *S3Store) Put(ctx context.Context, bucket, key string, body io.Reader, opts PutOptions) error {
	cleaned, err := CleanKey(key)
	if err != nil {
		return err
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(cleaned),
		Body:        body,
		IfNoneMatch: aws.String("*"),
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.Size > 0 {
		input.ContentLength = aws.Int64(opts.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "PreconditionFailed" || apiErr.ErrorCode() == "ConditionalRequestConflict") {
			return ErrObjectExists
		}
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// List pages through ListObjectsV2 and returns the objects directly under prefix.
func (s *S3Store) List(ctx context.Context, bucket, prefix string) ([]Object, error) {
	listPrefix := ""
	if prefix != "" {
		cleaned, err := CleanKey(prefix)
		if err != nil {
			return nil, err
		}
		listPrefix = cleaned + "/"
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(listPrefix),
		Delimiter: aws.String("/"),
	})

	objects := make([]Object, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, item := range page.Contents {
			key := aws.ToString(item.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			objects = append(objects, Object{
				Key:       key,
				Size:      aws.ToInt64(item.Size),
				UpdatedAt: aws.ToTime(item.LastModified),
			})
		}
	}
	return objects, nil
}

// Remove deletes keys in a single DeleteObjects call.
func (s *S3Store) Remove(ctx context.Context, bucket string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ids := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		cleaned, err := CleanKey(key)
		if err != nil {
			return err
		}
		ids = append(ids, types.ObjectIdentifier{Key: aws.String(cleaned)})
	}

	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("delete objects: %w", err)
	}
	if out != nil && len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("delete object %s: %s", aws.ToString(first.Key), aws.ToString(first.Message))
	}
	return nil
}

// SignURL presigns a GET request valid for ttl.
func (s *S3Store) SignURL(ctx context.Context, bucket, key string, ttl time.Duration) (SignedURL, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return SignedURL{}, err
	}
	if ttl <= 0 {
		return SignedURL{}, fmt.Errorf("ttl must be positive")
	}
	issued := s.now()
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(cleaned),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return SignedURL{}, fmt.Errorf("presign object: %w", err)
	}
	return SignedURL{URL: req.URL, ExpiresAt: issued.Add(ttl)}, nil
}

// PublicURL returns the public link for key.
func (s *S3Store) PublicURL(bucket, key string) string {
	if s.opts.PublicBaseURL != "" {
		return joinURL(s.opts.PublicBaseURL, bucket, key)
	}
	return joinURL(fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, s.opts.Region), key)
}

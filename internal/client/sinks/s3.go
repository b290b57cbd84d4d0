package sinks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// S3Options configures S3Sink. Endpoint and static credentials are optional;
// without them the default AWS chain is used.
type S3Options struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	// Prefix is prepended to every object key.
	Prefix string
}

// S3Sink uploads images to an S3 compatible bucket under
// <prefix>/<yyyy>/<m>/<d>/<uuid><ext>.
type S3Sink struct {
	opts   S3Options
	client *s3.Client
	now    func() time.Time
}

func NewS3Sink(ctx context.Context, opts S3Options) (*S3Sink, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	if opts.Prefix == "" {
		opts.Prefix = "graphs"
	}
	return &S3Sink{opts: opts, client: client, now: time.Now}, nil
}

func (s *S3Sink) objectKey(name, contentType string) string {
	d := s.now().UTC()
	file := fmt.Sprintf("%s-%v%s", name, uuid.New(), extensionFor(contentType))
	return path.Join(strings.Trim(s.opts.Prefix, "/"), fmt.Sprintf("%d/%d/%d", d.Year(), d.Month(), d.Day()), file)
}

func (s *S3Sink) Put(ctx context.Context, name string, img *models.Image) (string, error) {
	key := s.objectKey(name, img.ContentType)

	_, err := putObject(s.client, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img.Data),
		ContentType:   aws.String(img.ContentType),
		ContentLength: aws.Int64(int64(len(img.Data))),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return "s3://" + s.opts.Bucket + "/" + key, nil
}

var _ ImageSink = (*S3Sink)(nil)

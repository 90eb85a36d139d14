// Package archive stores rendered reports in an S3-compatible bucket.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

type Options struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// objectAPI is the part of the S3 client the archive uses
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Archive struct {
	client objectAPI
	bucket string
	log    *zap.Logger
}

// New builds an archive client. Endpoint is optional and points the
// client at R2, MinIO or any other S3-compatible service.
func New(ctx context.Context, opts Options, log *zap.Logger) (*Archive, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("archive bucket is not configured")
	}
	region := opts.Region
	if region == "" {
		region = "auto"
	}

	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.AccessKey != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("configure s3 client: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Archive{client: client, bucket: opts.Bucket, log: log.Named("archive")}, nil
}

// ReportKey is the object key of a report rendered at t
func ReportKey(period string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("reports/%s/%s-%s.pdf", t.Format("2006/01/02"), period, t.Format("20060102T150405Z"))
}

// PutReport uploads a PDF and returns its key
func (a *Archive) PutReport(ctx context.Context, period string, at time.Time, pdf []byte) (string, error) {
	key := ReportKey(period, at)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	a.log.Info("report archived", zap.String("key", key), zap.Int("bytes", len(pdf)))
	return key, nil
}

package breach

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// objectPutter is the slice of the S3 client the exporter needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config locates the export bucket. Credentials come from the default
// AWS chain.
type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	PathStyle bool
}

// S3Exporter uploads ciphertext under <prefix>/<id>/{photo,video}. The IV
// travels as object metadata.
type S3Exporter struct {
	client objectPutter
	bucket string
	prefix string
}

func NewS3Exporter(ctx context.Context, cfg S3Config) (*S3Exporter, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3Exporter(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Exporter(client objectPutter, bucket, prefix string) *S3Exporter {
	if prefix == "" {
		prefix = "breaches"
	}
	return &S3Exporter{client: client, bucket: bucket, prefix: prefix}
}

func (e *S3Exporter) Export(ctx context.Context, rec Record) error {
	base := path.Join(e.prefix, strconv.FormatInt(rec.ID, 10))
	for name, blob := range map[string]Blob{"photo": rec.Photo, "video": rec.Video} {
		_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(e.bucket),
			Key:         aws.String(path.Join(base, name)),
			Body:        bytes.NewReader(blob.Ciphertext),
			ContentType: aws.String("application/octet-stream"),
			Metadata: map[string]string{
				"iv":        base64.StdEncoding.EncodeToString(blob.IV),
				"timestamp": rec.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
			},
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", name, err)
		}
	}
	return nil
}

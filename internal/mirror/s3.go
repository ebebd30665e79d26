package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/prayerpartner/service-web-go/pkg/utilities"
)

// Config holds settings for the S3-compatible document store.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// ConfigFromEnv reads mirror settings from environment variables. An empty
// bucket or endpoint means the mirror is not configured and callers should
// fall back to Nop.
func ConfigFromEnv() Config {
	return Config{
		Endpoint:  os.Getenv("MIRROR_S3_ENDPOINT"),
		Region:    os.Getenv("MIRROR_S3_REGION"),
		Bucket:    os.Getenv("MIRROR_S3_BUCKET"),
		AccessKey: os.Getenv("MIRROR_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("MIRROR_S3_SECRET_KEY"),
	}
}

// Enabled reports whether the config points at a usable document store.
func (c Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// document is the denormalized copy stored per created prayer request.
type document struct {
	Username   string    `json:"username"`
	CategoryID int64     `json:"category_id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
}

// putObjectAPI is the slice of the S3 client the mirror uses; a seam for tests.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Mirror writes one JSON document per created prayer request into a bucket.
type S3Mirror struct {
	client putObjectAPI
	bucket string
}

// NewS3Mirror builds an S3-backed mirror from the given config. The endpoint
// may point at any S3-compatible store (MinIO and friends).
func NewS3Mirror(ctx context.Context, cfg Config) (*S3Mirror, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Mirror{client: client, bucket: cfg.Bucket}, nil
}

// Write stores the document under a date-partitioned snowflake key.
// At-most-once: there is no retry and no queue behind this call.
func (m *S3Mirror) Write(ctx context.Context, username string, categoryID int64, title string) error {
	doc := document{
		Username:   username,
		CategoryID: categoryID,
		Title:      title,
		CreatedAt:  time.Now().UTC(),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal mirror document: %w", err)
	}

	key := storageKey(doc.CreatedAt)
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put mirror document %s: %w", key, err)
	}
	return nil
}

func storageKey(t time.Time) string {
	return fmt.Sprintf("prayer-requests/%d/%02d/%02d/%s.json",
		t.Year(), t.Month(), t.Day(), utilities.NewSnowflakeID())
}

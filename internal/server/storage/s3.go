// Package storage uploads announce images to an S3-compatible backend and
// returns the public URL under which they can be fetched.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/petiteannonce/server/internal/server/config"
)

// ObjectStore is implemented by image storage backends. Upload streams body
// under the given key and returns the public URL of the stored object.
type ObjectStore interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}

// test seams
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

type S3Store struct {
	config *sc.Config
}

func NewS3Store(config *sc.Config) *S3Store {
	return &S3Store{config: config}
}

// MakeStorageKey builds a date-partitioned random object key, keeping the
// original file extension so stored URLs stay recognizable.
func MakeStorageKey(fileName string) string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(fileName))
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Upload stores body under key and returns its public URL. A failed upload
// returns an error without any partial state for the caller to clean up.
func (s *S3Store) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {

	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}

	return s.PublicURL(key), nil
}

// PublicURL derives the fetchable URL for a stored object key.
func (s *S3Store) PublicURL(key string) string {
	base := strings.TrimRight(s.config.S3PublicBaseURL, "/")
	return base + "/" + key
}

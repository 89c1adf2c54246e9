package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the subset of the S3 client used by S3Store. Narrowed to an
// interface so tests can substitute a fake.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store persists recorded streams in an S3 bucket.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	store := archive.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "sessions/")
type S3Store struct {
	client s3API
	bucket string
	prefix string
}

// NewS3Store creates a store writing under the given bucket and key
// prefix (e.g. "sessions/").
func NewS3Store(client s3API, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Save uploads a recorded stream under the given name.
func (s *S3Store) Save(ctx context.Context, name string, rec *Recorder) error {
	data := rec.Bytes()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
		Metadata: map[string]string{
			"frame-count": fmt.Sprintf("%d", rec.Count()),
			"saved-at":    time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("archive: s3 upload failed: %w", err)
	}
	return nil
}

// Load downloads a recorded stream by name. The returned bytes can be
// handed straight to Replay or Rebuild.
func (s *S3Store) Load(ctx context.Context, name string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + name),
	})
	if err != nil {
		return nil, fmt.Errorf("archive: s3 download failed: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("archive: s3 read failed: %w", err)
	}
	return data, nil
}

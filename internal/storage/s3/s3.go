package s3

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/eldieng/Fawsayni-Tech/internal/config"
	"github.com/eldieng/Fawsayni-Tech/internal/storage"
)

const presignTTL = 15 * time.Minute

type S3Client struct {
	Client    *s3.Client
	Presigner *s3.PresignClient
	Bucket    string
}

// NewClient initializes a client for S3 or an S3-compatible endpoint
// (R2, MinIO). An empty endpoint uses AWS.
func NewClient(ctx context.Context, c appconfig.S3Config) (*S3Client, error) {
	creds := credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, "")

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		Client:    client,
		Presigner: s3.NewPresignClient(client),
		Bucket:    c.Bucket,
	}, nil
}

// Save uploads the object. ContentLength is always set; some S3-compatible
// stores reject chunked uploads.
func (s *S3Client) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=86400"),
	})
	if err != nil {
		return fmt.Errorf("s3: put object %s: %w", key, err)
	}
	return nil
}

// Remove deletes an object from the bucket.
func (s *S3Client) Remove(ctx context.Context, key string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3: delete object %s: %w", key, err)
	}
	return nil
}

// PresignedURL creates a presigned GET URL for the object.
func (s *S3Client) PresignedURL(ctx context.Context, key string) (string, error) {
	req, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignTTL
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return req.URL, nil
}

// ServeHTTP redirects to a presigned URL for the requested key.
func (s *S3Client) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")
	if !storage.ValidKey(key) {
		http.NotFound(w, r)
		return
	}
	url, err := s.PresignedURL(r.Context(), key)
	if err != nil {
		log.Printf("[Storage] presign %s: %v", key, err)
		http.Error(w, "storage unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Cache-Control", "private, max-age=600")
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

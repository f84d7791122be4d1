package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"brokerage/internal/config"
)

// MediaStorage hands out upload URLs for listing/offer media and deletes
// objects when their parent record goes away.
type MediaStorage interface {
	PresignUpload(ctx context.Context, userID, filename, contentType string) (uploadURL, objectURL string, err error)
	Delete(ctx context.Context, objectURL string) error
}

type s3Storage struct {
	cfg           config.Config
	client        *s3.Client
	presignClient *s3.PresignClient
}

func NewS3Storage(ctx context.Context, cfg config.Config) (MediaStorage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AwsRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return &s3Storage{
		cfg:           cfg,
		client:        client,
		presignClient: s3.NewPresignClient(client),
	}, nil
}

func (s *s3Storage) PresignUpload(ctx context.Context, userID, filename, contentType string) (string, string, error) {
	objectKey := fmt.Sprintf("media/%s/%s_%s", userID, uuid.NewString(), sanitizeFilename(filename))

	presigned, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload for %s: %w", objectKey, err)
	}
	return presigned.URL, s.objectURL(objectKey), nil
}

func (s *s3Storage) Delete(ctx context.Context, objectURL string) error {
	key := s.keyFromURL(objectURL)
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *s3Storage) objectURL(key string) string {
	prefix := s.cfg.MediaURLPrefix
	if prefix == "" {
		prefix = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.cfg.AwsS3Bucket, s.cfg.AwsRegion)
	}
	return strings.TrimSuffix(prefix, "/") + "/" + key
}

func (s *s3Storage) keyFromURL(objectURL string) string {
	idx := strings.Index(objectURL, "/media/")
	if idx < 0 {
		return ""
	}
	return objectURL[idx+1:]
}

func sanitizeFilename(filename string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, filename)
	if cleaned == "" {
		return "file"
	}
	return cleaned
}

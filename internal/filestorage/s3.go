package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/resell-market/internal/config"
)

// S3 сохраняет файлы в S3-совместимое объектное хранилище
// (AWS S3 или MinIO через base endpoint).
type S3 struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

// NewS3 создаёт клиент объектного хранилища по конфигурации.
func NewS3(cfg config.FileStorage) (*S3, error) {
	const op = "filestorage.NewS3"

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{
		client:   client,
		bucket:   cfg.S3Bucket,
		endpoint: cfg.S3Endpoint,
	}, nil
}

// Store загружает файл в бакет и возвращает публичный URL объекта.
func (s *S3) Store(ctx context.Context, data []byte, originalName, contentType string) (string, error) {
	const op = "filestorage.S3.Store"

	key := objectKey(originalName)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

func objectKey(originalName string) string {
	d := time.Now()
	return fmt.Sprintf("items/%d/%02d/%02d/%s_%s",
		d.Year(), d.Month(), d.Day(), uuid.New(), filepath.Base(originalName))
}

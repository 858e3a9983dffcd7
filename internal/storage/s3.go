package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MediaStorage загружает аватары и обложки в S3-совместимое хранилище
// (MinIO в локальном окружении) и возвращает публичный URL объекта
type MediaStorage struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

func NewMediaStorage(ctx context.Context, endpoint string, region string, bucket string, accessKey string, secretKey string) (*MediaStorage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("ошибка конфигурации хранилища: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MediaStorage{
		client:   client,
		bucket:   bucket,
		endpoint: strings.TrimRight(endpoint, "/"),
	}, nil
}

func randomStorageKey(folder string, filename string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%d/%d/%s%s", folder, d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(filename))
}

// Upload кладет файл в бакет и возвращает его URL
func (storage *MediaStorage) Upload(ctx context.Context, folder string, filename string, contentType string, body io.Reader) (string, error) {
	key := randomStorageKey(folder, filename)

	_, err := storage.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(storage.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки файла в хранилище: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", storage.endpoint, storage.bucket, key)
	log.Printf("файл успешно загружен: %s", url)
	return url, nil
}

package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "github.com/GoArmGo/WardrobeApp/internal/config"
)

// Client представляет собой клиент для взаимодействия с MinIO (S3-совместимым хранилищем).
// Здесь лежат изображения образов и вещей; в БД хранится только ключ объекта.
type Client struct {
	s3Client    *s3.Client
	uploader    *manager.Uploader
	bucketName  string
	endpointURL string
}

// NewMinioClient создает и инициализирует новый MinIO Client, используя переданную конфигурацию.
func NewMinioClient(cfg *appconfig.Config, logger *slog.Logger) (*Client, error) {
	var fullMinioEndpointURL string
	if cfg.MinioUseSSL {
		fullMinioEndpointURL = fmt.Sprintf("https://%s", cfg.MinioEndpoint)
	} else {
		fullMinioEndpointURL = fmt.Sprintf("http://%s", cfg.MinioEndpoint)
	}

	cfgAws, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.MinioAccessKeyID, cfg.MinioSecretAccessKey, "")),
		awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:    fullMinioEndpointURL,
					Source: aws.EndpointSourceCustom,
				}, nil
			})),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for MinIO: %w", err)
	}

	s3Client := s3.NewFromConfig(cfgAws, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(s3Client)

	// Проверяем существование бакета, при отсутствии создаем
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.MinioBucketName),
	})

	if err != nil {
		logger.Warn("bucket not found, creating", "bucket", cfg.MinioBucketName)

		_, createErr := s3Client.CreateBucket(context.TODO(), &s3.CreateBucketInput{
			Bucket: aws.String(cfg.MinioBucketName),
			CreateBucketConfiguration: &types.CreateBucketConfiguration{
				LocationConstraint: types.BucketLocationConstraint(cfg.MinioRegion),
			},
		})
		if createErr != nil {
			return nil, fmt.Errorf("failed to create bucket '%s': %w", cfg.MinioBucketName, createErr)
		}

		waiter := s3.NewBucketExistsWaiter(s3Client)
		if err := waiter.Wait(context.TODO(), &s3.HeadBucketInput{
			Bucket: aws.String(cfg.MinioBucketName),
		}, 30*time.Second); err != nil {
			return nil, fmt.Errorf("failed waiting for bucket '%s' to be created: %w", cfg.MinioBucketName, err)
		}

		logger.Info("bucket created", "bucket", cfg.MinioBucketName)
	}

	return &Client{
		s3Client:    s3Client,
		uploader:    uploader,
		bucketName:  cfg.MinioBucketName,
		endpointURL: fullMinioEndpointURL,
	}, nil
}

// UploadFile загружает файл в бакет MinIO и возвращает его публичный URL.
func (c *Client) UploadFile(ctx context.Context, objectKey string, fileContent io.Reader, contentType string) (string, error) {
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(objectKey),
		Body:        fileContent,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file %s to bucket %s: %w", objectKey, c.bucketName, err)
	}

	return fmt.Sprintf("%s/%s/%s", c.endpointURL, c.bucketName, objectKey), nil
}

// GetFile получает содержимое файла из MinIO.
func (c *Client) GetFile(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	output, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s from bucket %s: %w", objectKey, c.bucketName, err)
	}
	return output.Body, nil
}

// DeleteFile удаляет файл из MinIO.
func (c *Client) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file %s from bucket %s: %w", objectKey, c.bucketName, err)
	}
	return nil
}

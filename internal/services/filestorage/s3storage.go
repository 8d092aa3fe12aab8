package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/config"
)

type S3FileStorage struct {
	client *s3.Client
	cfg    *config.S3Config
}

func NewS3FileStorage(cfg *config.Config) (*S3FileStorage, error) {
	if cfg.S3 == nil {
		return nil, fmt.Errorf("s3 config is not set")
	}

	provider := credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, "")
	awsCfg, err := awsconfig.LoadDefaultConfig(
		context.TODO(),
		awsconfig.WithRegion(cfg.S3.Region),
		awsconfig.WithCredentialsProvider(provider),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = &cfg.S3.Endpoint
		}
	})

	return &S3FileStorage{
		client: client,
		cfg:    cfg.S3,
	}, nil
}

func (s *S3FileStorage) Upload(ctx context.Context, file FileInfo) (string, error) {
	key := s.objectKey(file)
	mtype := mimetype.Detect(file.Content).String()

	// Uploads are publicly readable; stored assets are meant to be served
	// straight from the bucket.
	input := s3.PutObjectInput{
		Key:         &key,
		ContentType: &mtype,
		Bucket:      &s.cfg.Bucket,
		Body:        bytes.NewReader(file.Content),
		ACL:         types.ObjectCannedACLPublicRead,
	}

	if _, err := s.client.PutObject(ctx, &input); err != nil {
		return "", err
	}

	return s.publicURL(key), nil
}

func (s *S3FileStorage) GetFile(ctx context.Context, filename string) (*FileInfo, error) {
	object, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.cfg.Bucket,
		Key:    &filename,
	})
	if err != nil {
		return nil, err
	}
	defer object.Body.Close()

	content, err := io.ReadAll(object.Body)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(filename)
	return &FileInfo{
		Name:      strings.TrimSuffix(filename, ext),
		Extension: ext,
		Content:   content,
	}, nil
}

func (s *S3FileStorage) objectKey(file FileInfo) string {
	folder := strings.TrimSuffix(s.cfg.Folder, "/")
	if file.IsTemp {
		folder = "temp"
	}

	return fmt.Sprintf("%s/%s%s", folder, file.Name, file.Extension)
}

func (s *S3FileStorage) publicURL(key string) string {
	if s.cfg.VanityUrl != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(s.cfg.VanityUrl, "/"), key)
	}

	if strings.Contains(s.cfg.Endpoint, "amazonaws.com") {
		endpoint := strings.TrimPrefix(s.cfg.Endpoint, "https://")
		endpoint = strings.TrimSuffix(endpoint, "/")
		return fmt.Sprintf("https://%s.%s/%s", s.cfg.Bucket, endpoint, key)
	}

	// Generic S3-compatible providers (e.g. Cloudflare R2) need vanity_url
	// configured; there is no way to infer the public URL.
	return ""
}

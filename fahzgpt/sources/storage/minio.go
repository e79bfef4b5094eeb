package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient stores generated media. The SPA version of this app kept blobs
// as object URLs in the browser; here they become bucket objects served via
// presigned links.
type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(cfg config.Config) (*MinIOClient, error) {
	bucket := cfg.MinIOBucket
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: false,
		},
	)
	if err != nil {
		return nil, err
	}
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &MinIOClient{client: client, bucket: bucket}, nil
}

// UploadMedia stores one generated asset and returns a presigned URL good for
// a week, which is the closest durable analogue of a local blob reference.
func (m *MinIOClient) UploadMedia(ctx context.Context, kind, contentType string, data []byte) (string, error) {
	ext := extFor(contentType)
	key := filepath.Join(kind, fmt.Sprintf("%s%s", uuid.New().String(), ext))

	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}

	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, 7*24*time.Hour, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func extFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "video/mp4":
		return ".mp4"
	default:
		return ".bin"
	}
}

package utils

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Romain-GUILLEMOT/TubeBack/config"
	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioUploader turns staged local files into public WebP objects.
type MinioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func MinioInit(ctx context.Context) *MinioUploader {
	cfg := config.GetConfig()

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		Fatal("MinIO init failed", "err", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		Fatal("MinIO unreachable", "err", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			Fatal("MinIO bucket creation failed", "bucket", cfg.MinioBucket, "err", err)
		}
		Info("MinIO bucket created", "bucket", cfg.MinioBucket)
	}

	Success("MinIO connected successfully.", "bucket", cfg.MinioBucket)
	return NewMinioUploader(client, cfg.MinioBucket, cfg.MinioURL)
}

func NewMinioUploader(client *minio.Client, bucket, publicURL string) *MinioUploader {
	return &MinioUploader{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Upload converts the file at localPath with the given preset and stores it.
// It returns the public URL of the new object.
func (u *MinioUploader) Upload(ctx context.Context, localPath string, preset ImagePreset) (string, error) {
	mt, err := mimetype.DetectFile(localPath)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	converted, err := ConvertForPreset(src, mt.String(), preset)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", preset, err)
	}

	randStr, err := RandomString64()
	if err != nil {
		return "", err
	}
	name := preset.objectPrefix() + randStr + ".webp"
	_, err = u.client.PutObject(ctx, u.bucket, name, converted, int64(converted.Len()), minio.PutObjectOptions{
		ContentType: "image/webp",
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", name, err)
	}

	return u.URLFor(name), nil
}

// Remove deletes the object behind url. URLs that do not belong to this
// bucket are ignored.
func (u *MinioUploader) Remove(ctx context.Context, url string) error {
	name, ok := u.objectName(url)
	if !ok {
		return nil
	}
	return u.client.RemoveObject(ctx, u.bucket, name, minio.RemoveObjectOptions{})
}

func (u *MinioUploader) URLFor(objectName string) string {
	return u.publicURL + "/" + objectName
}

func (u *MinioUploader) objectName(url string) (string, bool) {
	prefix := u.publicURL + "/"
	if url == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	return name, name != ""
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"medtour-backend/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PresignedObjectBackend stores assets in an S3-compatible bucket. Besides
// server-side writes it can presign PUT URLs for direct client uploads.
type PresignedObjectBackend struct {
	client     *minio.Client
	bucketName string
	region     string
	publicBase string
	expiry     time.Duration
	initMu     sync.Mutex
	ready      bool
}

// bucketCheckTimeout bounds the first-use bucket check, which runs detached
// from the caller's context.
const bucketCheckTimeout = 10 * time.Second

func NewPresignedObjectBackend(cfg config.S3Config) (*PresignedObjectBackend, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}
	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	publicBase := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if publicBase == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket)
	}

	return &PresignedObjectBackend{
		client:     client,
		bucketName: bucket,
		region:     region,
		publicBase: publicBase,
		expiry:     expiry,
	}, nil
}

// ensureBucket creates the bucket on first use. A failed attempt is retried
// by the next caller; the work is only marked done once it succeeded.
func (b *PresignedObjectBackend) ensureBucket(ctx context.Context) error {
	b.initMu.Lock()
	defer b.initMu.Unlock()
	if b.ready {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bucketCheckTimeout)
	defer cancel()

	exists, err := b.client.BucketExists(ctx, b.bucketName)
	if err != nil {
		return err
	}
	if !exists {
		if err := b.client.MakeBucket(ctx, b.bucketName, minio.MakeBucketOptions{Region: b.region}); err != nil {
			return err
		}
	}
	b.ready = true
	return nil
}

func (b *PresignedObjectBackend) Write(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := b.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := b.client.PutObject(ctx, b.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return b.URLFor(key), nil
}

func (b *PresignedObjectBackend) Remove(ctx context.Context, rawURL string) error {
	key, ok := b.keyFromURL(rawURL)
	if !ok {
		return fmt.Errorf("%w: %s", ErrForeignURL, rawURL)
	}
	return b.client.RemoveObject(ctx, b.bucketName, key, minio.RemoveObjectOptions{})
}

func (b *PresignedObjectBackend) PresignPut(ctx context.Context, key string) (*PresignedUpload, error) {
	if err := b.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	u, err := b.client.PresignedPutObject(ctx, b.bucketName, key, b.expiry)
	if err != nil {
		return nil, err
	}
	return &PresignedUpload{
		UploadURL: u.String(),
		Key:       key,
		URL:       b.URLFor(key),
		ExpiresAt: time.Now().Add(b.expiry),
	}, nil
}

func (b *PresignedObjectBackend) Stat(ctx context.Context, key string) (int64, error) {
	info, err := b.client.StatObject(ctx, b.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return 0, ErrObjectNotFound
		}
		return 0, err
	}
	return info.Size, nil
}

func (b *PresignedObjectBackend) URLFor(key string) string {
	return b.publicBase + "/" + strings.TrimLeft(key, "/")
}

func (b *PresignedObjectBackend) keyFromURL(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, b.publicBase+"/") {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimPrefix(rawURL, b.publicBase+"/"))
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

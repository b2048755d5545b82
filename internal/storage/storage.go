package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"medtour-backend/config"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	ErrInvalidUpload      = errors.New("invalid upload")
	ErrEmptyFile          = fmt.Errorf("%w: file is empty", ErrInvalidUpload)
	ErrInvalidExtension   = fmt.Errorf("%w: file extension not allowed", ErrInvalidUpload)
	ErrFileTooLarge       = fmt.Errorf("%w: file exceeds maximum size", ErrInvalidUpload)
	ErrStorage            = errors.New("storage error")
	ErrObjectNotFound     = errors.New("stored object not found")
	ErrForeignURL         = errors.New("url is not managed by this backend")
	ErrPresignUnsupported = errors.New("presigned uploads are not supported by the configured backend")
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// AssetWriter persists file bytes under a key and hands back the public URL.
type AssetWriter interface {
	Write(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, url string) error
}

// Presigner is implemented by backends that let clients upload straight to
// the bucket and report back afterwards.
type Presigner interface {
	PresignPut(ctx context.Context, key string) (*PresignedUpload, error)
	Stat(ctx context.Context, key string) (int64, error)
	URLFor(key string) string
}

type PresignedUpload struct {
	UploadURL string
	Key       string
	URL       string
	ExpiresAt time.Time
}

// NewAssetWriter selects the backend named by cfg.Driver.
func NewAssetWriter(cfg config.StorageConfig) (AssetWriter, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverLocal:
		return NewLocalFileBackend(afero.NewOsFs(), cfg.LocalRoot, cfg.PublicBaseURL), nil
	case DriverS3:
		return NewPresignedObjectBackend(cfg.S3)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// Intake validates uploads and hands accepted bytes to an AssetWriter.
type Intake struct {
	writer  AssetWriter
	cfg     config.UploadConfig
	allowed map[string]struct{}
	newName func() string
}

func NewIntake(writer AssetWriter, cfg config.UploadConfig) *Intake {
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}
	return &Intake{
		writer:  writer,
		cfg:     cfg,
		allowed: allowed,
		newName: func() string { return uuid.New().String() },
	}
}

func (i *Intake) Config() config.UploadConfig {
	return i.cfg
}

// Extension returns the lower-cased extension of filename if it is allowed.
func (i *Intake) Extension(filename string) (string, error) {
	dot := strings.LastIndex(filename, ".")
	if dot < 0 || dot == len(filename)-1 {
		return "", ErrInvalidExtension
	}
	ext := strings.ToLower(filename[dot+1:])
	if _, ok := i.allowed[ext]; !ok {
		return "", fmt.Errorf("%w: .%s", ErrInvalidExtension, ext)
	}
	return ext, nil
}

// Validate checks a file without touching storage. The extension is checked
// first, so a disallowed type is reported as such even when it is empty.
func (i *Intake) Validate(filename string, size int64) error {
	if _, err := i.Extension(filename); err != nil {
		return err
	}
	if size <= 0 {
		return ErrEmptyFile
	}
	if i.cfg.MaxBytes > 0 && size > i.cfg.MaxBytes {
		return ErrFileTooLarge
	}
	return nil
}

// ObjectKey builds "<category>/<uuid>.<ext>". The client filename only
// contributes its extension.
func (i *Intake) ObjectKey(category, filename string) (string, error) {
	ext, err := i.Extension(filename)
	if err != nil {
		return "", err
	}
	category = strings.Trim(path.Clean("/"+strings.TrimSpace(category)), "/")
	if category == "" || category == "." {
		return "", fmt.Errorf("%w: category is required", ErrInvalidUpload)
	}
	return category + "/" + i.newName() + "." + ext, nil
}

// Ingest validates data and stores it, returning the URL to record.
func (i *Intake) Ingest(ctx context.Context, data []byte, filename, category string) (string, error) {
	if err := i.Validate(filename, int64(len(data))); err != nil {
		return "", err
	}
	key, err := i.ObjectKey(category, filename)
	if err != nil {
		return "", err
	}

	url, err := i.writer.Write(ctx, key, data, mimetype.Detect(data).String())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return url, nil
}

// Remove deletes previously ingested bytes.
func (i *Intake) Remove(ctx context.Context, url string) error {
	if err := i.writer.Remove(ctx, url); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Presign prepares a direct-to-bucket upload for filename.
func (i *Intake) Presign(ctx context.Context, category, filename string) (*PresignedUpload, error) {
	presigner, ok := i.writer.(Presigner)
	if !ok {
		return nil, ErrPresignUnsupported
	}
	key, err := i.ObjectKey(category, filename)
	if err != nil {
		return nil, err
	}
	upload, err := presigner.PresignPut(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return upload, nil
}

// Confirm checks an object uploaded through a presigned URL and returns its
// public URL. Oversized or empty objects are removed from the bucket.
func (i *Intake) Confirm(ctx context.Context, key string) (string, error) {
	presigner, ok := i.writer.(Presigner)
	if !ok {
		return "", ErrPresignUnsupported
	}
	if _, err := i.Extension(key); err != nil {
		return "", err
	}

	size, err := presigner.Stat(ctx, key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	url := presigner.URLFor(key)
	if err := i.Validate(key, size); err != nil {
		_ = i.writer.Remove(ctx, url)
		return "", err
	}
	return url, nil
}

package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// LocalFileBackend writes files below root and serves them under publicBase,
// e.g. /media/doctor/<uuid>.jpg.
type LocalFileBackend struct {
	fs         afero.Fs
	root       string
	publicBase string
}

func NewLocalFileBackend(fs afero.Fs, root, publicBase string) *LocalFileBackend {
	if root == "" {
		root = "media"
	}
	if publicBase == "" {
		publicBase = "/media"
	}
	return &LocalFileBackend{
		fs:         fs,
		root:       root,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

func (b *LocalFileBackend) Root() string {
	return b.root
}

func (b *LocalFileBackend) Fs() afero.Fs {
	return b.fs
}

// Write never leaves a partial file behind: any failure after the file is
// created removes it.
func (b *LocalFileBackend) Write(ctx context.Context, key string, data []byte, _ string) (url string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fullPath, err := b.pathFor(key)
	if err != nil {
		return "", err
	}

	if err := b.fs.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("mkdir upload dir: %w", err)
	}

	f, err := b.fs.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = b.fs.Remove(fullPath)
		}
	}()

	if _, err = f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("write file: %w", err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	return b.publicBase + "/" + key, nil
}

// Remove deletes the file behind url. A file that is already gone is not an error.
func (b *LocalFileBackend) Remove(_ context.Context, url string) error {
	if !strings.HasPrefix(url, b.publicBase+"/") {
		return fmt.Errorf("%w: %s", ErrForeignURL, url)
	}
	fullPath, err := b.pathFor(strings.TrimPrefix(url, b.publicBase+"/"))
	if err != nil {
		return err
	}
	if err := b.fs.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (b *LocalFileBackend) pathFor(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(b.root, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Aashish23092/ocr-phone-extractor/config"
)

// FileSaver persists an exported file under the given name.
type FileSaver interface {
	Save(ctx context.Context, content []byte, filename string) error
}

// NewFileSaver builds the saver named in cfg.
func NewFileSaver(ctx context.Context, cfg config.FilesConfig) (FileSaver, error) {
	switch cfg.Backend {
	case "local":
		return NewLocalSaver(cfg.Dir), nil
	case "minio":
		return NewMinioSaver(ctx, cfg.Minio)
	default:
		return nil, fmt.Errorf("unknown files backend %q", cfg.Backend)
	}
}

// LocalSaver writes exports into a directory.
type LocalSaver struct {
	dir string
}

func NewLocalSaver(dir string) *LocalSaver {
	return &LocalSaver{dir: dir}
}

func (l *LocalSaver) Save(_ context.Context, content []byte, filename string) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	path := filepath.Join(l.dir, filepath.Base(filename))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// MinioSaver uploads exports to an S3 compatible bucket.
type MinioSaver struct {
	client *minio.Client
	bucket string
}

func NewMinioSaver(ctx context.Context, cfg config.MinioConfig) (*MinioSaver, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioSaver{client: client, bucket: cfg.Bucket}, nil
}

func (m *MinioSaver) Save(ctx context.Context, content []byte, filename string) error {
	_, err := m.client.PutObject(ctx, m.bucket, filename, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: contentTypeFor(filename)})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	return nil
}

func contentTypeFor(filename string) string {
	switch filepath.Ext(filename) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

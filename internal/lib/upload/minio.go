package upload

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/deppfellow/mentorme/internal/config"
	"github.com/deppfellow/mentorme/internal/model"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOUploader stores documents as objects in a MinIO bucket under the
// upload directory used as key prefix.
type MinIOUploader struct {
	client  *minio.Client
	bucket  string
	prefix  string
	maxSize int64
}

// NewMinIOUploader connects to MinIO and makes sure the bucket exists.
func NewMinIOUploader(cfg config.MinIOConfig, prefix string, maxSize int64) (*MinIOUploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}

	u := &MinIOUploader{
		client:  mc,
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(prefix, "/"),
		maxSize: maxSize,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		// MakeBucket fails when the bucket already exists.
		exists, xerr := mc.BucketExists(ctx, u.bucket)
		if xerr != nil || !exists {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}

	return u, nil
}

func (u *MinIOUploader) Directory() string {
	return u.prefix
}

func (u *MinIOUploader) Ping(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("minio bucket exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("minio bucket %s does not exist", u.bucket)
	}
	return nil
}

// Upload puts every file into the bucket. Document.Path is the object key.
func (u *MinIOUploader) Upload(ctx context.Context, files []*multipart.FileHeader) ([]model.Document, error) {
	docs := make([]model.Document, 0, len(files))

	for _, fh := range files {
		doc, err := u.store(ctx, fh)
		if err != nil {
			_ = u.Remove(context.Background(), model.DocumentPaths(docs))
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func (u *MinIOUploader) store(ctx context.Context, fh *multipart.FileHeader) (model.Document, error) {
	o, err := open(fh, u.maxSize)
	if err != nil {
		return model.Document{}, err
	}
	defer o.file.Close()

	key := path.Join(u.prefix, o.key)
	_, err = u.client.PutObject(ctx, u.bucket, key, o.file, fh.Size, minio.PutObjectOptions{
		ContentType: o.document.ContentType,
	})
	if err != nil {
		return model.Document{}, fmt.Errorf("put object %s: %w", key, err)
	}

	o.document.Path = key
	return o.document, nil
}

// Remove deletes the given object keys. Keys outside the prefix are refused.
func (u *MinIOUploader) Remove(ctx context.Context, paths []string) error {
	var errList []error
	for _, key := range paths {
		if u.prefix != "" && !strings.HasPrefix(key, u.prefix+"/") {
			errList = append(errList, fmt.Errorf("refusing to remove %s: outside %s", key, u.prefix))
			continue
		}
		if err := u.client.RemoveObject(ctx, u.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			errList = append(errList, fmt.Errorf("remove object %s: %w", key, err))
		}
	}
	return errors.Join(errList...)
}

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/deppfellow/mentorme/internal/model"
)

// LocalUploader writes documents into a directory on the local filesystem.
type LocalUploader struct {
	dir     string
	maxSize int64
}

func NewLocalUploader(dir string, maxSize int64) *LocalUploader {
	return &LocalUploader{dir: dir, maxSize: maxSize}
}

func (u *LocalUploader) Directory() string {
	return u.dir
}

// Ping creates the upload directory when missing and checks that it is a directory.
func (u *LocalUploader) Ping(ctx context.Context) error {
	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}
	info, err := os.Stat(u.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", u.dir)
	}
	return nil
}

// Upload writes every file under the upload directory. Document.Path is the
// path of the written file.
func (u *LocalUploader) Upload(ctx context.Context, files []*multipart.FileHeader) ([]model.Document, error) {
	docs := make([]model.Document, 0, len(files))
	if len(files) == 0 {
		return docs, nil
	}

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	for _, fh := range files {
		if err := ctx.Err(); err != nil {
			u.discard(docs)
			return nil, err
		}

		doc, err := u.store(fh)
		if err != nil {
			u.discard(docs)
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func (u *LocalUploader) store(fh *multipart.FileHeader) (model.Document, error) {
	o, err := open(fh, u.maxSize)
	if err != nil {
		return model.Document{}, err
	}
	defer o.file.Close()

	target := filepath.Join(u.dir, o.key)
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return model.Document{}, fmt.Errorf("create %s: %w", target, err)
	}

	if _, err := io.Copy(out, o.file); err != nil {
		out.Close()
		os.Remove(target)
		return model.Document{}, fmt.Errorf("write %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(target)
		return model.Document{}, fmt.Errorf("close %s: %w", target, err)
	}

	o.document.Path = target
	return o.document, nil
}

func (u *LocalUploader) discard(docs []model.Document) {
	_ = u.Remove(context.Background(), model.DocumentPaths(docs))
}

// Remove deletes the given files. Files that are already gone are ignored,
// paths outside the upload directory are refused.
func (u *LocalUploader) Remove(ctx context.Context, paths []string) error {
	var errList []error
	for _, p := range paths {
		if !u.contains(p) {
			errList = append(errList, fmt.Errorf("refusing to remove %s: outside %s", p, u.dir))
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

func (u *LocalUploader) contains(p string) bool {
	rel, err := filepath.Rel(u.dir, p)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

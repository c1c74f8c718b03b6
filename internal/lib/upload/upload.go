// Package upload stores uploaded program documents.
//
// An Uploader turns the raw files of a multipart request into
// model.Document descriptors. Two backends exist: the local filesystem and
// a MinIO bucket. Either way an upload is all or nothing: when one file
// fails, the files already stored by that call are removed and the whole
// request fails.
package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/deppfellow/mentorme/internal/config"
	"github.com/deppfellow/mentorme/internal/errs"
	"github.com/deppfellow/mentorme/internal/model"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Uploader stores raw uploaded files and returns their Document descriptors
// in upload order.
type Uploader interface {
	Upload(ctx context.Context, files []*multipart.FileHeader) ([]model.Document, error)
	Remove(ctx context.Context, paths []string) error
	Directory() string

	// Ping reports whether the storage is reachable and writable.
	Ping(ctx context.Context) error
}

// New builds the Uploader selected by cfg.Backend.
func New(cfg config.UploadConfig) (Uploader, error) {
	switch cfg.Backend {
	case "local":
		return NewLocalUploader(cfg.Directory, cfg.MaxFileSize), nil
	case "minio":
		u, err := NewMinIOUploader(cfg.MinIO, cfg.Directory, cfg.MaxFileSize)
		if err != nil {
			return nil, err
		}
		return u, nil
	default:
		return nil, errs.NewConfigurationError("upload.backend", fmt.Sprintf("has unknown value %q", cfg.Backend))
	}
}

// opened is a validated, opened upload ready to be stored.
type opened struct {
	file     multipart.File
	document model.Document
	key      string
}

// open checks the size cap, sniffs the content type and picks a unique
// storage name. The caller closes the returned file.
func open(fh *multipart.FileHeader, maxSize int64) (*opened, error) {
	name := filepath.Base(fh.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return nil, errs.NewBadRequestError("uploaded file has no name", true, nil, nil, nil)
	}

	if maxSize > 0 && fh.Size > maxSize {
		return nil, errs.NewBadRequestError(
			fmt.Sprintf("file %q exceeds the maximum size of %d bytes", name, maxSize), true, nil, nil, nil)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file %q: %w", name, err)
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("detect content type of %q: %w", name, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("rewind uploaded file %q: %w", name, err)
	}

	return &opened{
		file: f,
		key:  uuid.NewString() + strings.ToLower(path.Ext(name)),
		document: model.Document{
			Name:        name,
			ContentType: mtype.String(),
			Size:        fh.Size,
		},
	}, nil
}

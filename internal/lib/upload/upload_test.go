package upload

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/deppfellow/mentorme/internal/config"
	"github.com/deppfellow/mentorme/internal/errs"
	"github.com/deppfellow/mentorme/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFile struct {
	name    string
	content []byte
}

func fileHeaders(t *testing.T, files ...testFile) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["files"]
}

func TestLocalUploader_PreservesOrder(t *testing.T) {
	dir := t.TempDir()
	u := NewLocalUploader(dir, 0)

	headers := fileHeaders(t,
		testFile{name: "syllabus.pdf", content: []byte("%PDF-1.4 syllabus")},
		testFile{name: "notes.TXT", content: []byte("plain notes")},
	)

	docs, err := u.Upload(context.Background(), headers)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "syllabus.pdf", docs[0].Name)
	assert.Equal(t, "application/pdf", docs[0].ContentType)
	assert.Equal(t, filepath.Ext(docs[0].Path), ".pdf")

	assert.Equal(t, "notes.TXT", docs[1].Name)
	assert.Equal(t, filepath.Ext(docs[1].Path), ".txt")
	assert.Equal(t, int64(len("plain notes")), docs[1].Size)

	for _, d := range docs {
		assert.Equal(t, dir, filepath.Dir(d.Path))
		_, err := os.Stat(d.Path)
		assert.NoError(t, err)
	}

	content, err := os.ReadFile(docs[1].Path)
	require.NoError(t, err)
	assert.Equal(t, "plain notes", string(content))
}

func TestLocalUploader_NoFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not-created")
	u := NewLocalUploader(dir, 0)

	docs, err := u.Upload(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NotNil(t, docs)

	_, err = os.Stat(dir)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLocalUploader_SizeCapIsAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	u := NewLocalUploader(dir, 8)

	headers := fileHeaders(t,
		testFile{name: "small.txt", content: []byte("ok")},
		testFile{name: "big.txt", content: []byte("far too large")},
	)

	docs, err := u.Upload(context.Background(), headers)
	require.Error(t, err)
	assert.Nil(t, docs)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 400, httpErr.Status)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "files stored before the failure must be removed")
}

func TestLocalUploader_RemoveRefusesOutsidePaths(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "uploads")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	outside := filepath.Join(base, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	u := NewLocalUploader(dir, 0)
	err := u.Remove(context.Background(), []string{outside, filepath.Join(dir, "..", "keep.txt")})
	require.Error(t, err)

	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr)
}

func TestLocalUploader_RemoveIgnoresMissing(t *testing.T) {
	dir := t.TempDir()
	u := NewLocalUploader(dir, 0)

	docs, err := u.Upload(context.Background(), fileHeaders(t, testFile{name: "a.txt", content: []byte("a")}))
	require.NoError(t, err)

	paths := model.DocumentPaths(docs)
	require.NoError(t, u.Remove(context.Background(), paths))
	require.NoError(t, u.Remove(context.Background(), paths))

	_, err = os.Stat(paths[0])
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLocalUploader_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	u := NewLocalUploader(dir, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := u.Upload(ctx, fileHeaders(t, testFile{name: "a.txt", content: []byte("a")}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	u, err := New(config.UploadConfig{Backend: "local", Directory: "uploads"})
	require.NoError(t, err)
	assert.Equal(t, "uploads", u.Directory())

	_, err = New(config.UploadConfig{Backend: "ftp", Directory: "uploads"})
	var cfgErr *errs.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "upload.backend", cfgErr.Name)

	_, err = New(config.UploadConfig{Backend: "minio", Directory: "uploads"})
	assert.Error(t, err)
}

func TestLocalUploader_Ping(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	u := NewLocalUploader(dir, 0)

	require.NoError(t, u.Ping(context.Background()))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.Error(t, NewLocalUploader(file, 0).Ping(context.Background()))
}

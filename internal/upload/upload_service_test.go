package upload

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
)

type flakyStorage struct {
	failAt  int
	saved   []string
	removed []string
}

func (f *flakyStorage) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	if len(f.saved)+1 == f.failAt {
		return errors.New("disk full")
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}
	f.saved = append(f.saved, name)
	return nil
}

func (f *flakyStorage) URL(context.Context, string) (string, error) { return "", nil }

func (f *flakyStorage) Remove(_ context.Context, name string) error {
	f.removed = append(f.removed, name)
	return nil
}

func fileHeaders(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	body, contentType := multipartBody(t, files)
	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["files"]
}

func TestUploadRemovesSavedFilesWhenBatchFails(t *testing.T) {
	storage := &flakyStorage{failAt: 3}
	svc := NewService(storage, 1<<20)

	files := fileHeaders(t, map[string][]byte{
		"a.jpg": []byte("a"),
		"b.png": []byte("b"),
		"c.gif": []byte("c"),
	})
	names, err := svc.Upload(t.Context(), files)
	require.Error(t, err)
	require.Nil(t, names)
	require.Len(t, storage.saved, 2)
	require.ElementsMatch(t, storage.saved, storage.removed)
}

func TestUploadKeepsFilesOnSuccess(t *testing.T) {
	storage := &flakyStorage{}
	svc := NewService(storage, 1<<20)

	names, err := svc.Upload(t.Context(), fileHeaders(t, map[string][]byte{"a.jpg": []byte("a")}))
	require.NoError(t, err)
	require.Equal(t, storage.saved, names)
	require.Empty(t, storage.removed)
}

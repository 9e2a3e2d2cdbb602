package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, _ = part.Write([]byte(content))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestLocalStorageSaveAndDelete(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "uploads")
	require.NoError(t, err)

	url, err := ls.SaveFile(fileHeader(t, "Deck.PDF", "slides"), "slides")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/slides/"), url)
	assert.True(t, strings.HasSuffix(url, ".pdf"), url)

	data, err := os.ReadFile(ls.GetFullPath(url))
	require.NoError(t, err)
	assert.Equal(t, "slides", string(data))

	require.NoError(t, ls.DeleteFile(url))
	_, err = os.Stat(ls.GetFullPath(url))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, ls.DeleteFile(url), "deleting twice is fine")
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "/uploads/")
	require.NoError(t, err)

	assert.Empty(t, ls.GetFullPath("/uploads/../../etc/passwd"))
	assert.Empty(t, ls.GetFullPath("/elsewhere/file.pdf"))
	assert.ErrorIs(t, ls.DeleteFile("/elsewhere/file.pdf"), ErrInvalidPath)

	url, err := ls.SaveFile(fileHeader(t, "a.mp4", "v"), "../../videos")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/videos/"), url)
}

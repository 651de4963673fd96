package images

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/petadoption/internal/apperrors"
)

// Minimal headers http.DetectContentType recognises.
var (
	pngData  = "\x89PNG\r\n\x1a\n fake png data"
	jpegData = "\xff\xd8\xff\xe0 fake jpeg data"
	gifData  = "GIF89a fake gif data"
)

func managedPath(s *Store, ref string) string {
	return filepath.Join(s.Dir(), strings.TrimPrefix(ref, URLPrefix))
}

func TestNewStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")

	store, err := NewStore(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, store.Dir())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestImport_EmptySource(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Import(context.Background(), "  ")

	require.NoError(t, err)
	assert.Empty(t, ref)
}

func TestImport_RejectsLocalPath(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "rex.png")
	require.NoError(t, os.WriteFile(src, []byte(pngData), 0644))

	_, err = store.Import(context.Background(), src)

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "image", ve.Field)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImportTrusted_LocalFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "rex.PNG")
	require.NoError(t, os.WriteFile(src, []byte(pngData), 0644))

	ref, err := store.ImportTrusted(context.Background(), src)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, URLPrefix))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	data, err := os.ReadFile(managedPath(store, ref))
	require.NoError(t, err)
	assert.Equal(t, pngData, string(data))

	// The source is copied, not moved.
	_, err = os.Stat(src)
	assert.NoError(t, err)
}

func TestImportTrusted_ExtensionFromContent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "photo")
	require.NoError(t, os.WriteFile(src, []byte(gifData), 0644))

	ref, err := store.ImportTrusted(context.Background(), src)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(ref, ".gif"))
}

func TestImportTrusted_RejectsNonImages(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "images"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"database file", "pet-adoption.db", "SQLite format 3\x00"},
		{"html with image extension", "cat.jpg", "<html><script>alert(1)</script></html>"},
		{"image with disallowed extension", "cat.svg", pngData},
		{"empty file", "empty.png", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(src, []byte(tt.content), 0644))

			_, err := store.ImportTrusted(context.Background(), src)
			assert.True(t, apperrors.IsValidation(err), "got %v", err)
		})
	}

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected files leave nothing behind")
}

func TestImportTrusted_MissingFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.ImportTrusted(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"))

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "image", ve.Field)
}

func TestImport_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte(jpegData))
	}))
	defer server.Close()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Import(context.Background(), server.URL+"/dogs/rex.jpeg?w=400")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(ref, ".jpeg"))
	data, err := os.ReadFile(managedPath(store, ref))
	require.NoError(t, err)
	assert.Equal(t, jpegData, string(data))

	// Trusted imports download URLs the same way.
	ref, err = store.ImportTrusted(context.Background(), server.URL+"/dogs/rex.jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".jpeg"))
}

func TestImport_URLServingHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<!DOCTYPE html><html><body>not a pet</body></html>"))
	}))
	defer server.Close()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Import(context.Background(), server.URL+"/rex.jpg")

	assert.True(t, apperrors.IsValidation(err))
}

func TestImport_URLNotOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Import(context.Background(), server.URL+"/missing.jpg")

	assert.True(t, apperrors.IsValidation(err))
	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "failed downloads leave no files behind")
}

func TestSave(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save("upload.gif", strings.NewReader(gifData))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(ref, ".gif"))
	data, err := os.ReadFile(managedPath(store, ref))
	require.NoError(t, err)
	assert.Equal(t, gifData, string(data))
}

func TestSave_RejectsHTML(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("x.html", strings.NewReader("<script>document.cookie</script>"))
	assert.True(t, apperrors.IsValidation(err))

	// Renaming the page does not get it past the content check.
	_, err = store.Save("x.png", strings.NewReader("<script>document.cookie</script>"))
	assert.True(t, apperrors.IsValidation(err))

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_TooLarge(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	body := io.MultiReader(strings.NewReader(pngData), strings.NewReader(strings.Repeat("x", maxImageSize)))
	_, err = store.Save("big.png", body)

	assert.True(t, apperrors.IsValidation(err))
}

func TestSave_UniqueNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save("a.jpg", strings.NewReader(jpegData))
	require.NoError(t, err)
	second, err := store.Save("a.jpg", strings.NewReader(jpegData))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRemove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save("a.jpg", strings.NewReader(jpegData))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ref))
	_, err = os.Stat(managedPath(store, ref))
	assert.True(t, os.IsNotExist(err))

	// Removing again, or removing external references, is a no-op.
	assert.NoError(t, store.Remove(ref))
	assert.NoError(t, store.Remove("https://images.unsplash.com/photo.jpg"))
	assert.NoError(t, store.Remove(""))
}

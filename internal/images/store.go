// Package images manages the directory of pet pictures served under /images.
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/petadoption/internal/apperrors"
)

// URLPrefix is the leading path segment of every managed image reference.
const URLPrefix = "images/"

// maxImageSize bounds downloads and uploads.
const maxImageSize = 10 << 20

// sniffLen is how much of a file http.DetectContentType looks at.
const sniffLen = 512

// allowedExts are the extensions a managed image may carry.
var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// contentExts maps the sniffed content types that are accepted to the
// extension used when the source name has none.
var contentExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store copies pet images into a managed directory.
type Store struct {
	dir        string
	httpClient *http.Client
}

// NewStore creates the image directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create images dir: %w", err)
	}

	return &Store{
		dir: dir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Import downloads an http(s) URL into the store and returns its reference.
// An empty source yields "". Anything other than a URL is rejected; see
// ImportTrusted for local files.
func (s *Store) Import(ctx context.Context, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", nil
	}
	if !IsRemote(source) {
		return "", apperrors.Invalid("image", "image source must be an http or https URL")
	}
	return s.download(ctx, source)
}

// ImportTrusted is Import that also copies local file paths. It must only be
// given sources chosen by the operator, never by an API client.
func (s *Store) ImportTrusted(ctx context.Context, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" || IsRemote(source) {
		return s.Import(ctx, source)
	}
	return s.copyFile(source)
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Save stores r under a fresh name keeping the extension of filename.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	return s.write(filename, r)
}

// Remove deletes a managed image. References outside the store, such as
// external URLs, are ignored.
func (s *Store) Remove(ref string) error {
	if !strings.HasPrefix(ref, URLPrefix) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(ref, URLPrefix))
	if name == "." || name == string(filepath.Separator) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Dir returns the managed directory path.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) download(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", apperrors.Invalid("image", "invalid image URL")
	}
	req.Header.Set("User-Agent", "PetAdoption/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Invalid("image", "could not download image")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Invalid("image", fmt.Sprintf("could not download image: status %d", resp.StatusCode))
	}

	// Query strings are not part of the extension.
	name := rawURL
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	return s.write(path.Base(name), resp.Body)
}

func (s *Store) copyFile(src string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperrors.Invalid("image", "image file not found")
		}
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return "", apperrors.Invalid("image", "image path is a directory")
	}

	return s.write(filepath.Base(src), f)
}

// write checks that r holds a supported image, streams it into a temp file
// and renames it to <uuid><ext>.
func (s *Store) write(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "." {
		ext = ""
	}
	if ext != "" && !allowedExts[ext] {
		return "", apperrors.Invalid("image", fmt.Sprintf("unsupported image type %q", ext))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	head = head[:n]

	sniffedExt, ok := contentExts[http.DetectContentType(head)]
	if !ok {
		return "", apperrors.Invalid("image", "file is not a supported image")
	}
	if ext == "" {
		ext = sniffedExt
	}
	name := uuid.NewString() + ext

	tmpFile, err := os.CreateTemp(s.dir, "image_tmp_")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	body := io.MultiReader(bytes.NewReader(head), r)
	written, err := io.Copy(tmpFile, io.LimitReader(body, maxImageSize+1))
	if err != nil {
		return "", err
	}
	if written > maxImageSize {
		return "", apperrors.Invalid("image", "image is larger than 10 MB")
	}

	if err := tmpFile.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		return "", err
	}
	return URLPrefix + name, nil
}

package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 * 1024 * 1024

// ErrInvalidImage is returned for files that are too large or not images.
var ErrInvalidImage = errors.New("invalid image")

// AllowedImageTypes defines the allowed image file extensions
var AllowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Asset is a stored file as listings reference it.
type Asset struct {
	URL      string
	Filename string
}

// FileStore stores uploaded listing images.
type FileStore interface {
	Save(ctx context.Context, file *multipart.FileHeader) (Asset, error)
	Delete(ctx context.Context, filename string) error
}

// ValidateImageFile checks if the uploaded file is a valid image
func ValidateImageFile(file *multipart.FileHeader) error {
	if file.Size > MaxImageSize {
		return fmt.Errorf("%w: file size exceeds 5MB limit", ErrInvalidImage)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !AllowedImageTypes[ext] {
		return fmt.Errorf("%w: allowed types are jpg, jpeg, png, gif, webp", ErrInvalidImage)
	}
	return nil
}

// DiskStore writes uploads below a directory served at a URL prefix.
type DiskStore struct {
	dir       string
	urlPrefix string
}

// NewDiskStore stores files in dir and builds URLs under urlPrefix ("/uploads").
func NewDiskStore(dir, urlPrefix string) *DiskStore {
	return &DiskStore{dir: dir, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}
}

// Save validates and copies the upload under a random name.
func (s *DiskStore) Save(_ context.Context, file *multipart.FileHeader) (Asset, error) {
	if err := ValidateImageFile(file); err != nil {
		return Asset{}, err
	}

	filename := uuid.New().String() + strings.ToLower(filepath.Ext(file.Filename))
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return Asset{}, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return Asset{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return Asset{}, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return Asset{}, fmt.Errorf("failed to save file: %w", err)
	}

	return Asset{URL: path.Join(s.urlPrefix, filename), Filename: filename}, nil
}

// Delete removes a stored file. Missing files are not an error.
func (s *DiskStore) Delete(_ context.Context, filename string) error {
	if filename == "" || filename != filepath.Base(filename) {
		return fmt.Errorf("refusing to delete %q", filename)
	}
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

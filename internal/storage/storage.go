package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStore keeps uploaded images on local disk and hands back public URLs.
// Object names are uuids so re-uploads never collide or overwrite.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *DiskStore) SaveProductImage(productID uint, filename string, r io.Reader) (string, error) {
	return s.save(fmt.Sprintf("products/%d", productID), filename, r)
}

func (s *DiskStore) SaveHeroImage(filename string, r io.Reader) (string, error) {
	return s.save("hero", filename, r)
}

func (s *DiskStore) save(prefix, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	object := uuid.New().String() + ext

	dir := filepath.Join(s.Dir, filepath.FromSlash(prefix))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, object))
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}

	return s.BaseURL + "/" + path.Join("uploads", prefix, object), nil
}

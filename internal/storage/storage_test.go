package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveProductImage(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(dir, "http://localhost:8080/")

	url, err := store.SaveProductImage(7, "photo.PNG", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/products/7/"), url)
	require.True(t, strings.HasSuffix(url, ".png"), url)

	entries, err := os.ReadDir(filepath.Join(dir, "products", "7"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, "products", "7", entries[0].Name()))
	require.NoError(t, err)
	require.Equal(t, "fake image bytes", string(data))
}

func TestSaveHeroImageDefaultExtension(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "http://localhost:8080")

	url, err := store.SaveHeroImage("banner", strings.NewReader("x"))
	require.NoError(t, err)
	require.Contains(t, url, "/uploads/hero/")
	require.True(t, strings.HasSuffix(url, ".jpg"), url)
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "http://localhost:8080")

	first, err := store.SaveHeroImage("a.jpg", strings.NewReader("1"))
	require.NoError(t, err)
	second, err := store.SaveHeroImage("a.jpg", strings.NewReader("2"))
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

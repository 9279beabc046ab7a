package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	return NewStore(NewLocalBackend(root)), root
}

func TestCheckExtension(t *testing.T) {
	for _, name := range []string{"a.jpg", "a.JPEG", "a.png", "a.Gif", "a.bmp"} {
		_, err := CheckExtension(name)
		assert.NoError(t, err, name)
	}
	for _, name := range []string{"a.txt", "a", "a.webp", "jpg"} {
		_, err := CheckExtension(name)
		assert.ErrorIs(t, err, ErrInvalidExtension, name)
	}
}

func TestStoreWritesUnderEntityDirectory(t *testing.T) {
	store, root := newTestStore(t)

	rel, err := store.Store(context.Background(), KindPackage, "abc", SlotPackageImage, "Keto Weekly Box", NewBytesUpload("photo.PNG", []byte("png")))
	require.NoError(t, err)
	assert.Equal(t, "uploads/packages/abc/keto-weekl-package_image.png", rel)

	data, err := os.ReadFile(filepath.Join(root, "packages", "abc", "keto-weekl-package_image.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestStoreNilUploadIsEmpty(t *testing.T) {
	store, root := newTestStore(t)

	rel, err := store.Store(context.Background(), KindItem, "abc", SlotImage, "x", nil)
	require.NoError(t, err)
	assert.Empty(t, rel)
	_, err = os.Stat(filepath.Join(root, "items", "abc"))
	assert.True(t, os.IsNotExist(err))
}

func TestStoreRejectsExtension(t *testing.T) {
	store, root := newTestStore(t)

	_, err := store.Store(context.Background(), KindItem, "abc", SlotImage, "salad", NewBytesUpload("notes.txt", []byte("x")))
	assert.ErrorIs(t, err, ErrInvalidExtension)
	_, statErr := os.Stat(filepath.Join(root, "items", "abc"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestReplaceKeepsOldFileUntilDiscarded(t *testing.T) {
	store, root := newTestStore(t)
	ctx := context.Background()

	old, err := store.Store(ctx, KindItem, "abc", SlotImage, "salad", NewBytesUpload("a.jpg", []byte("old")))
	require.NoError(t, err)

	rel, err := store.Replace(ctx, KindItem, "abc", SlotImage, "green bowl", old, NewBytesUpload("b.png", []byte("new")))
	require.NoError(t, err)
	assert.Equal(t, "uploads/items/abc/green-bowl-image.png", rel)
	_, err = os.Stat(filepath.Join(root, "items", "abc", "salad-image.jpg"))
	assert.NoError(t, err)

	require.NoError(t, store.Discard(ctx, old, rel))
	_, err = os.Stat(filepath.Join(root, "items", "abc", "salad-image.jpg"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "items", "abc", "green-bowl-image.png"))
	assert.NoError(t, err)
}

func TestReplaceSamePathOverwritesInPlace(t *testing.T) {
	store, root := newTestStore(t)
	ctx := context.Background()

	old, err := store.Store(ctx, KindItem, "abc", SlotImage, "salad", NewBytesUpload("a.jpg", []byte("old")))
	require.NoError(t, err)
	rel, err := store.Replace(ctx, KindItem, "abc", SlotImage, "salad", old, NewBytesUpload("b.jpg", []byte("new")))
	require.NoError(t, err)
	assert.Equal(t, old, rel)

	require.NoError(t, store.Discard(ctx, old, rel))
	data, err := os.ReadFile(filepath.Join(root, "items", "abc", "salad-image.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestDiscardIgnoresForeignPaths(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.NoError(t, store.Discard(ctx, "", "x"))
	assert.NoError(t, store.Discard(ctx, "https://cdn.example.com/a.jpg", ""))
	assert.NoError(t, store.Discard(ctx, "uploads/../etc/passwd", ""))
}

func TestReplaceKeepsPathWithoutUpload(t *testing.T) {
	store, _ := newTestStore(t)

	rel, err := store.Replace(context.Background(), KindItem, "abc", SlotImage, "salad", "uploads/items/abc/salad-image.jpg", nil)
	require.NoError(t, err)
	assert.Equal(t, "uploads/items/abc/salad-image.jpg", rel)
}

func TestReplaceRejectsBeforeTouchingOldFile(t *testing.T) {
	store, root := newTestStore(t)
	ctx := context.Background()

	old, err := store.Store(ctx, KindItem, "abc", SlotImage, "salad", NewBytesUpload("a.jpg", []byte("old")))
	require.NoError(t, err)

	_, err = store.Replace(ctx, KindItem, "abc", SlotImage, "salad", old, NewBytesUpload("a.txt", []byte("new")))
	assert.ErrorIs(t, err, ErrInvalidExtension)
	_, err = os.Stat(filepath.Join(root, "items", "abc", "salad-image.jpg"))
	assert.NoError(t, err)
}

func TestRemoveIsIdempotent(t *testing.T) {
	store, root := newTestStore(t)
	ctx := context.Background()

	_, err := store.Store(ctx, KindPackage, "p1", SlotPackageImage, "box", NewBytesUpload("a.jpg", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, KindPackage, "p1"))
	require.NoError(t, store.Remove(ctx, KindPackage, "p1"))
	_, err = os.Stat(filepath.Join(root, "packages", "p1"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "image.jpg", fileName("   ", "image", ".jpg"))
	assert.Equal(t, "a-b-image.jpg", fileName("a  b", "image", ".jpg"))
	assert.Equal(t, "دجاج-مشوي-image.jpg", fileName("دجاج مشوي", "image", ".jpg"))
}

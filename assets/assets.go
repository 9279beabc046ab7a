// Package assets stores uploaded images under one directory per owning
// entity: uploads/<kind>/<id>/<file>.
package assets

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	KindPackage = "packages"
	KindItem    = "items"

	SlotPackageImage        = "package_image"
	SlotImage               = "image"
	SlotNutritionFactsImage = "nutrition_facts_image"

	// PublicPrefix is the first segment of every stored path handed back to callers.
	PublicPrefix = "uploads"

	nameChars = 10
)

var ErrInvalidExtension = errors.New("invalid file extension")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
}

// Store validates uploads and places them into a Backend keyed by the owning
// entity. It never touches records, only files.
type Store struct {
	backend Backend
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// CheckExtension returns the lowercased extension of filename, or
// ErrInvalidExtension when it is not an accepted image type.
func CheckExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}
	return ext, nil
}

// Store writes upload into the entity's directory and returns the public
// relative path. A nil upload stores nothing and yields "".
func (s *Store) Store(ctx context.Context, kind, id, slot, displayName string, upload Upload) (string, error) {
	if upload == nil {
		return "", nil
	}
	ext, err := CheckExtension(upload.Filename())
	if err != nil {
		return "", err
	}

	key := path.Join(kind, id, fileName(displayName, slot, ext))
	rc, err := upload.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", slot, err)
	}
	defer rc.Close()

	if err := s.backend.Put(ctx, key, rc); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return path.Join(PublicPrefix, key), nil
}

// Replace stores upload for slot and returns its path, leaving the file at
// oldPath in place. Callers Discard the old path once the new one is
// persisted. With a nil upload the current path is kept.
func (s *Store) Replace(ctx context.Context, kind, id, slot, displayName, oldPath string, upload Upload) (string, error) {
	if upload == nil {
		return oldPath, nil
	}
	return s.Store(ctx, kind, id, slot, displayName, upload)
}

// Discard deletes the file at p unless p is keep. Empty paths and paths
// outside the store are ignored.
func (s *Store) Discard(ctx context.Context, p, keep string) error {
	if p == "" || p == keep {
		return nil
	}
	key, ok := keyFromPath(p)
	if !ok {
		return nil
	}
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Remove deletes every file of the entity. Missing directories are not an error.
func (s *Store) Remove(ctx context.Context, kind, id string) error {
	if id == "" {
		return nil
	}
	if err := s.backend.DeletePrefix(ctx, path.Join(kind, id)); err != nil {
		return fmt.Errorf("remove %s/%s: %w", kind, id, err)
	}
	return nil
}

func keyFromPath(p string) (string, bool) {
	p = strings.TrimPrefix(p, "/")
	if !strings.HasPrefix(p, PublicPrefix+"/") {
		return "", false
	}
	key := strings.TrimPrefix(p, PublicPrefix+"/")
	if strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

// fileName builds "<first chars of name>-<slot><ext>". Two uploads for the
// same slot overwrite each other.
func fileName(displayName, slot, ext string) string {
	var b strings.Builder
	n := 0
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(displayName)) {
		if n == nameChars {
			break
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		default:
			continue
		}
		n++
	}
	base := strings.Trim(b.String(), "-")
	if base == "" {
		return slot + ext
	}
	return base + "-" + slot + ext
}

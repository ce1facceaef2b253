// Package upload stores multipart image uploads on local disk under a
// per-kind subdirectory of the configured upload root.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Kinds of uploads the API accepts. Each maps to its own subdirectory.
var allowedKinds = map[string]bool{
	"tires":      true,
	"promotions": true,
	"avatars":    true,
}

// allowedExts whitelists image file extensions.
var allowedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// ErrKindUnknown is returned for upload kinds outside the whitelist.
var ErrKindUnknown = errors.New("unknown upload kind")

// ErrExtNotAllowed is returned for file extensions outside the whitelist.
var ErrExtNotAllowed = errors.New("file extension not allowed")

// ValidKind reports whether kind names a known upload category.
func ValidKind(kind string) bool { return allowedKinds[kind] }

// SafeFilename strips path components and unsafe characters from an
// uploaded filename and prefixes a UTC timestamp so repeated uploads of
// the same name never collide.
func SafeFilename(original string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	if !allowedExts[ext] {
		return "", ErrExtNotAllowed
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		cleaned = "upload"
	}
	return fmt.Sprintf("%d_%s%s", time.Now().UTC().UnixNano(), cleaned, ext), nil
}

// Store writes one multipart file under root/kind with a sanitized name
// and returns the relative path ("kind/filename") for persisting in the
// database.
func Store(root, kind string, fh *multipart.FileHeader) (string, error) {
	if !ValidKind(kind) {
		return "", ErrKindUnknown
	}
	name, err := SafeFilename(fh.Filename)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir upload dir: %w", err)
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Join(kind, name)), nil
}

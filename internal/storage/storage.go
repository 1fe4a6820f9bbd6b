// Package storage keeps uploaded cover images. Backends store objects under
// keys such as "books/book-1700000000000-1a2b3c4d.jpg"; book records refer
// to them by their public path, PublicPrefix + key.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxImageSize = 5 << 20
	PublicPrefix = "uploads/"
	bookDir      = "books/"
)

var (
	ErrNotImage = errors.New("Seules les images sont autorisées!")
	ErrTooLarge = errors.New("L'image ne doit pas dépasser 5 Mo")

	extRe = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)
)

// ImageStore is an object store for images. ServeHTTP serves the object
// named by the request path with PublicPrefix already stripped.
type ImageStore interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
	http.Handler
}

// Uploader validates multipart images and saves them to an ImageStore.
type Uploader struct {
	Store ImageStore
	Now   func() time.Time
}

// SaveBookCover stores the uploaded file as a book cover and returns the
// public path to record on the book.
func (u *Uploader) SaveBookCover(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxImageSize {
		return "", ErrTooLarge
	}
	declared, _, _ := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if !strings.HasPrefix(declared, "image/") {
		return "", ErrNotImage
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	sniffed := http.DetectContentType(head[:n])
	if !strings.HasPrefix(sniffed, "image/") {
		return "", ErrNotImage
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	key := u.coverKey(fh.Filename, sniffed)
	if err := u.Store.Save(ctx, key, f, fh.Size, sniffed); err != nil {
		return "", err
	}
	return PublicPrefix + key, nil
}

// Discard removes an image previously returned by SaveBookCover. Paths that
// do not point into the store are ignored.
func (u *Uploader) Discard(ctx context.Context, publicPath string) error {
	key, ok := KeyOf(publicPath)
	if !ok {
		return nil
	}
	return u.Store.Remove(ctx, key)
}

func (u *Uploader) coverKey(filename, contentType string) string {
	now := time.Now
	if u.Now != nil {
		now = u.Now
	}
	ext := strings.ToLower(path.Ext(filename))
	if !extRe.MatchString(ext) {
		ext = ""
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%sbook-%d-%s%s", bookDir, now().UnixMilli(), id, ext)
}

// KeyOf returns the store key of a public upload path.
func KeyOf(publicPath string) (string, bool) {
	key, ok := strings.CutPrefix(publicPath, PublicPrefix)
	if !ok || !ValidKey(key) {
		return "", false
	}
	return key, true
}

// ValidKey reports whether key is a clean relative object key.
func ValidKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	return path.Clean(key) == key && !strings.HasPrefix(key, "../") && key != ".."
}

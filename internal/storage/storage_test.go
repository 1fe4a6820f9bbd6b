package storage_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/eldieng/Fawsayni-Tech/internal/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type memImages struct {
	objects map[string][]byte
	types   map[string]string
	failPut bool
}

func newMemImages() *memImages {
	return &memImages{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memImages) Save(_ context.Context, key string, r io.Reader, size int64, ct string) error {
	if m.failPut {
		return errors.New("bucket unavailable")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(b)) != size {
		return fmt.Errorf("size mismatch: %d != %d", len(b), size)
	}
	m.objects[key], m.types[key] = b, ct
	return nil
}

func (m *memImages) Remove(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memImages) ServeHTTP(w http.ResponseWriter, r *http.Request) {}

func fileHeader(t *testing.T, name, ctype string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="coverImage"; filename=%q`, name))
	h.Set("Content-Type", ctype)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(body)
	mw.Close()

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(16 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["coverImage"][0]
}

func fixedNow() time.Time { return time.UnixMilli(1700000000123) }

func TestSaveBookCover(t *testing.T) {
	images := newMemImages()
	up := &storage.Uploader{Store: images, Now: fixedNow}

	p, err := up.SaveBookCover(t.Context(), fileHeader(t, "Cover.PNG", "image/png", pngHeader))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(p, "uploads/books/book-1700000000123-") || !strings.HasSuffix(p, ".png") {
		t.Fatalf("unexpected path %q", p)
	}
	key := strings.TrimPrefix(p, storage.PublicPrefix)
	if !bytes.Equal(images.objects[key], pngHeader) {
		t.Error("stored bytes differ from upload")
	}
	if images.types[key] != "image/png" {
		t.Errorf("want sniffed content type image/png, got %q", images.types[key])
	}
	if len(strings.TrimSuffix(strings.TrimPrefix(key, "books/book-1700000000123-"), ".png")) != 8 {
		t.Errorf("want an 8 char random suffix in %q", key)
	}

	if err := up.Discard(t.Context(), p); err != nil {
		t.Fatal(err)
	}
	if _, ok := images.objects[key]; ok {
		t.Error("Discard did not remove the object")
	}
}

func TestSaveBookCover_Rejects(t *testing.T) {
	up := &storage.Uploader{Store: newMemImages(), Now: fixedNow}

	cases := []struct {
		name string
		fh   *multipart.FileHeader
		want error
	}{
		{"declared text", fileHeader(t, "a.png", "text/plain", pngHeader), storage.ErrNotImage},
		{"sniffed text", fileHeader(t, "a.png", "image/png", []byte("<?php echo 1; ?>")), storage.ErrNotImage},
		{"too large", fileHeader(t, "a.png", "image/png", append(pngHeader, make([]byte, storage.MaxImageSize)...)), storage.ErrTooLarge},
	}
	for _, tc := range cases {
		if _, err := up.SaveBookCover(t.Context(), tc.fh); !errors.Is(err, tc.want) {
			t.Errorf("%s: want %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestSaveBookCover_StoreError(t *testing.T) {
	images := newMemImages()
	images.failPut = true
	up := &storage.Uploader{Store: images}
	if _, err := up.SaveBookCover(t.Context(), fileHeader(t, "a.png", "image/png", pngHeader)); err == nil {
		t.Fatal("want store error")
	}
}

func TestSaveBookCover_OddExtension(t *testing.T) {
	up := &storage.Uploader{Store: newMemImages(), Now: fixedNow}
	p, err := up.SaveBookCover(t.Context(), fileHeader(t, "cover.p n g", "image/png", pngHeader))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(p, ".png") {
		t.Errorf("want extension derived from content type, got %q", p)
	}
}

func TestKeyOf(t *testing.T) {
	for in, want := range map[string]bool{
		"uploads/books/book-1.jpg": true,
		"default-book.jpg":         false,
		"uploads/../secret":        false,
		"uploads//etc/passwd":      false,
		"uploads/":                 false,
		"http://cdn/x.jpg":         false,
	} {
		if _, ok := storage.KeyOf(in); ok != want {
			t.Errorf("KeyOf(%q) = %v, want %v", in, ok, want)
		}
	}
}

package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	UploadsBaseDir = "./uploads"
	URLPathPrefix  = "/uploads"

	maxExtLen = 10
	sniffLen  = 3072

	emptyContentType = "application/octet-stream"
)

// Store keeps uploaded image bytes. Implementations must make a saved blob
// readable through Open under the same name.
type Store interface {
	// Save streams r into a new blob named after originalName's extension.
	// size may be -1 when unknown.
	Save(ctx context.Context, originalName string, r io.Reader, size int64) (*Blob, error)
	Open(ctx context.Context, name string) (io.ReadSeekCloser, *ObjectInfo, error)
	Remove(ctx context.Context, name string) error
}

// GenerateName returns a collision-resistant file name that keeps the
// original extension, e.g. "sunset.JPG" -> "<uuid>.jpg".
func GenerateName(originalName string) string {
	return uuid.NewString() + sanitizeExt(originalName)
}

// URLPathFor maps a blob name to the path it is served under.
func URLPathFor(name string) string {
	return URLPathPrefix + "/" + name
}

func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if ext == "" || ext == "." {
		return ""
	}
	ext = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, ext[1:])
	if ext == "" {
		return ""
	}
	if len(ext) > maxExtLen {
		ext = ext[:maxExtLen]
	}
	return "." + ext
}

// validateName rejects anything that is not a single path element.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return ErrInvalidName
	}
	return nil
}

// sniff detects the content type from the head of r and returns a reader
// that still yields the full stream. An empty stream is octet-stream.
func sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, err
	}
	head = head[:n]
	if n == 0 {
		return emptyContentType, bytes.NewReader(nil), nil
	}

	contentType := mimetype.Detect(head).String()
	return contentType, io.MultiReader(bytes.NewReader(head), r), nil
}

// Package media stores uploaded profile photos, book covers and book PDFs
// and hands back the public URL each object is served from.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/bookworm/pkg/idx"
)

// Folders group objects by what they are used for.
const (
	FolderProfilePhoto = "profile_photo"
	FolderBookCover    = "book_photo"
	FolderBookPDF      = "book_pdf"
)

var (
	ErrUnsupportedFormat = errors.New("media: unsupported file format")
	ErrEmptyObject       = errors.New("media: empty object")
)

var (
	imageFormats = []string{"jpg", "jpeg", "png", "gif", "webp", "avif", "svg", "heic"}
	pdfFormats   = []string{"pdf"}
)

// Object is a single upload.
type Object struct {
	Folder      string
	Filename    string // client supplied, only the extension is trusted
	ContentType string // client supplied, informational only
	Body        io.Reader
	Size        int64
}

// Uploader persists objects and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, obj Object) (string, error)
}

// Validate checks that obj has content and an extension its folder accepts.
func Validate(obj Object) error {
	if obj.Body == nil || obj.Size == 0 {
		return ErrEmptyObject
	}

	allowed := imageFormats
	if obj.Folder == FolderBookPDF {
		allowed = pdfFormats
	}

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(obj.Filename)), ".")
	if !slices.Contains(allowed, ext) {
		return fmt.Errorf("%w: %q in %s", ErrUnsupportedFormat, ext, obj.Folder)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectKey names obj as "<folder>/<unix millis>-<nonce>-<sanitised filename>".
// The nonce is the 16 character random half of a fresh ULID, so two uploads
// of the same file in the same millisecond get different keys.
func ObjectKey(obj Object, now time.Time) string {
	name := path.Base(strings.ReplaceAll(obj.Filename, `\`, "/"))
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "-"), "-.")
	if name == "" {
		name = "upload"
	}
	nonce := strings.ToLower(idx.New().String()[10:])
	return fmt.Sprintf("%s/%d-%s-%s", obj.Folder, now.UnixMilli(), nonce, name)
}

// contentType is derived from the validated extension alone.
func contentType(obj Object) string {
	switch strings.ToLower(path.Ext(obj.Filename)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".avif":
		return "image/avif"
	case ".svg":
		return "image/svg+xml"
	case ".heic":
		return "image/heic"
	}
	return "application/octet-stream"
}

// isActive reports whether a browser could execute script from a file of
// this name if it were rendered inline.
func isActive(name string) bool {
	return strings.EqualFold(path.Ext(name), ".svg")
}

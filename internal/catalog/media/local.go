package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// URLPrefix is where the local uploader's files are served.
const URLPrefix = "/media/"

// Local writes objects under a directory on disk and serves them itself.
type Local struct {
	dir     string
	baseURL string
	now     func() time.Time
}

// NewLocal creates dir if needed. baseURL is the externally reachable
// origin of this service, e.g. "http://localhost:5000".
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("media: create %s: %w", dir, err)
	}
	return &Local{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}, nil
}

func (u *Local) Upload(ctx context.Context, obj Object) (string, error) {
	if err := Validate(obj); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := ObjectKey(obj, u.now())
	dst := filepath.Join(u.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return "", err
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("media: create %s: %w", key, err)
	}
	if _, err := io.Copy(f, obj.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("media: write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return u.baseURL + URLPrefix + key, nil
}

// Handler serves stored files below URLPrefix. Directory listings are
// disabled. Responses are sandboxed so an uploaded document can never run
// script on this origin, and SVGs are only ever offered as downloads.
func (u *Local) Handler() http.Handler {
	fs := http.FileServer(http.Dir(u.dir))
	return http.StripPrefix(URLPrefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}

		h := w.Header()
		h.Set("Content-Security-Policy", "default-src 'none'; sandbox")
		h.Set("X-Content-Type-Options", "nosniff")
		if ct := contentType(Object{Filename: r.URL.Path}); ct != "application/octet-stream" {
			h.Set("Content-Type", ct)
		}
		if isActive(r.URL.Path) {
			h.Set("Content-Disposition", "attachment")
		}
		fs.ServeHTTP(w, r)
	}))
}

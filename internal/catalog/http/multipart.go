package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/aussiebroadwan/bookworm/internal/catalog/media"
	"github.com/aussiebroadwan/bookworm/pkg/authsdk"
	"github.com/aussiebroadwan/bookworm/pkg/httpx"
)

// maxFormMemory is how much of a multipart body is held in memory before
// file parts spill to temporary files.
const maxFormMemory = 8 << 20

// uploadForm is a parsed multipart request. Close releases its files.
type uploadForm struct {
	r     *http.Request
	files []multipart.File
}

func parseUploadForm(w http.ResponseWriter, r *http.Request, limit int64) (*uploadForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, httpx.ErrBodyTooLarge
		}
		return nil, err
	}
	return &uploadForm{r: r}, nil
}

func (f *uploadForm) value(name string) string {
	if vs := f.r.MultipartForm.Value[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// file returns the named file part, or nil when the field is absent.
func (f *uploadForm) file(name string) (*media.Object, error) {
	headers := f.r.MultipartForm.File[name]
	if len(headers) == 0 {
		return nil, nil
	}

	h := headers[0]
	file, err := h.Open()
	if err != nil {
		return nil, err
	}
	f.files = append(f.files, file)

	return &media.Object{
		Filename:    h.Filename,
		ContentType: h.Header.Get("Content-Type"),
		Body:        file,
		Size:        h.Size,
	}, nil
}

func (f *uploadForm) Close() {
	for _, file := range f.files {
		_ = file.Close()
	}
	_ = f.r.MultipartForm.RemoveAll()
}

// writeFormError answers a body that could not be parsed as multipart.
func writeFormError(w http.ResponseWriter, err error) {
	if errors.Is(err, httpx.ErrBodyTooLarge) {
		authsdk.ErrRequestTooLarge.WriteError(w)
		return
	}
	authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "Request body must be multipart/form-data").WriteError(w)
}

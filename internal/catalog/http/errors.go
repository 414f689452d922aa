package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/bookworm/internal/catalog/service"
	"github.com/aussiebroadwan/bookworm/pkg/authsdk"
	"github.com/aussiebroadwan/bookworm/pkg/httpx"
	"github.com/aussiebroadwan/bookworm/pkg/slogx"
)

// writeError maps a service error onto its API response. conflict and
// notFound describe the 409 and 404 cases of the calling endpoint.
func writeError(w http.ResponseWriter, r *http.Request, err error, conflict, notFound string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		authsdk.WriteValidationError(w, verr.Fields)
	case errors.Is(err, httpx.ErrBodyTooLarge):
		authsdk.ErrRequestTooLarge.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case isSessionError(err):
		authsdk.ErrUnauthorized.WriteError(w)
	case errors.Is(err, service.ErrForbidden):
		authsdk.ErrForbidden.WriteError(w)
	case errors.Is(err, service.ErrConflict):
		authsdk.NewAPIError(http.StatusConflict, authsdk.ErrorCodeConflict, conflict).WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		authsdk.NewAPIError(http.StatusNotFound, authsdk.ErrorCodeNotFound, notFound).WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		authsdk.ErrServerError.WriteError(w)
	}
}

// decodeJSON reads a JSON body and writes the error response itself when
// that fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(w, r, maxJSONBytes, v); err != nil {
		if errors.Is(err, httpx.ErrBodyTooLarge) {
			authsdk.ErrRequestTooLarge.WriteError(w)
			return false
		}
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "Request body must be valid JSON").WriteError(w)
		return false
	}
	return true
}

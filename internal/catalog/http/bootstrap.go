package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/service"
	"github.com/aussiebroadwan/bookworm/pkg/authsdk"
	"github.com/aussiebroadwan/bookworm/pkg/httpx"
	"github.com/aussiebroadwan/bookworm/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the first admin
//	@Description	Creates the first admin user. Only available when a bootstrap token is configured and only until an admin exists.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string							true	"Bootstrap token for authorization"
//	@Param			request				body		authsdk.BootstrapRequest		true	"Admin account"
//	@Success		201					{object}	authsdk.BootstrapResponse
//	@Failure		400					{object}	authsdk.ValidationErrorResponse	"Invalid request body or validation failed"
//	@Failure		401					{object}	authsdk.ErrorResponse			"Missing or invalid bootstrap token, or system already bootstrapped"
//	@Failure		404					{object}	authsdk.ErrorResponse			"Bootstrap not enabled (no token configured)"
//	@Router			/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())
	l.Info("Starting to bootstrap")

	// 1. Check if enabled
	if h.BootstrapService == nil || h.BootstrapService.Token == "" {
		authsdk.NewAPIError(http.StatusNotFound, authsdk.ErrorCodeNotFound, "Bootstrap endpoint is not enabled").WriteError(w)
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized,
			"Bootstrap token is required in X-Bootstrap-Token header").WriteError(w)
		return
	}

	// 3. Parse request body and validate
	var req authsdk.BootstrapRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		authsdk.WriteValidationError(w, errs)
		return
	}

	// 4. Create the admin
	admin, generated, err := h.BootstrapService.Bootstrap(r.Context(), token, domain.BootstrapData{
		AdminName:     req.AdminName,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready):
			authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized,
				"System has already been bootstrapped").WriteError(w)
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized,
				"Invalid bootstrap token").WriteError(w)
		default:
			writeError(w, r, err, conflictEmail, "")
		}
		return
	}

	// 5. Respond with the admin (a generated password is only shown once)
	httpx.WriteJSON(w, http.StatusCreated, authsdk.BootstrapResponse{
		Message:           "Admin created",
		User:              toUser(admin),
		GeneratedPassword: generated,
	})
}

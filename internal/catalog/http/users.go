package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/service"
	"github.com/aussiebroadwan/bookworm/pkg/authsdk"
	"github.com/aussiebroadwan/bookworm/pkg/httpx"
)

type UsersHandler struct {
	SessionService *service.SessionService
}

// HandleSetRole promotes or demotes a user.
//
//	@Summary		Set user role
//	@Description	The last admin cannot be demoted.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		CookieAuth
//	@Param			id		path		string				true	"User id"
//	@Param			request	body		authsdk.RoleRequest	true	"user or admin"
//	@Success		200		{object}	authsdk.UserResponse
//	@Failure		400		{object}	authsdk.ValidationErrorResponse
//	@Failure		403		{object}	authsdk.ErrorResponse
//	@Failure		404		{object}	authsdk.ErrorResponse
//	@Failure		409		{object}	authsdk.ErrorResponse	"Last admin"
//	@Router			/users/{id}/role [put].
func (h *UsersHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	actor, _ := UserFromContext(r.Context())
	user, err := h.SessionService.SetRole(r.Context(), actor, r.PathValue("id"), domain.Role(req.Role))
	if err != nil {
		writeError(w, r, err, "cannot demote the last admin", "user not found")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{User: toUser(user)})
}

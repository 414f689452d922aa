package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/service"
	"github.com/aussiebroadwan/bookworm/pkg/authsdk"
	"github.com/aussiebroadwan/bookworm/pkg/httpx"
)

const conflictEmail = "email already registered"

// AuthHandler serves registration, login and the session lifecycle.
type AuthHandler struct {
	SessionService *service.SessionService
	Cookies        httpx.CookiePolicy
	MaxUploadBytes int64
}

func (h *AuthHandler) setSession(w http.ResponseWriter, pair domain.TokenPair) {
	httpx.NoCache(w)
	h.Cookies.SetCookie(w, domain.AccessToken.CookieName(), pair.AccessToken, pair.AccessExpiresAt)
	h.Cookies.SetCookie(w, domain.RefreshToken.CookieName(), pair.RefreshToken, pair.RefreshExpiresAt)
}

func (h *AuthHandler) clearSession(w http.ResponseWriter) {
	httpx.NoCache(w)
	h.Cookies.ExpireCookie(w, domain.AccessToken.CookieName())
	h.Cookies.ExpireCookie(w, domain.RefreshToken.CookieName())
}

// HandleRegister creates an account.
//
//	@Summary		Register
//	@Description	Creates a user with the role "user", uploads the profile photo and starts a session.
//	@Tags			Session
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name		formData	string	true	"Display name"
//	@Param			email		formData	string	true	"Email address"
//	@Param			password	formData	string	true	"Password"
//	@Param			photo		formData	file	true	"Profile photo"
//	@Success		201			{object}	authsdk.AuthResponse
//	@Failure		400			{object}	authsdk.ValidationErrorResponse
//	@Failure		409			{object}	authsdk.ErrorResponse	"Email already registered"
//	@Failure		413			{object}	authsdk.ErrorResponse
//	@Router			/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	form, err := parseUploadForm(w, r, h.MaxUploadBytes)
	if err != nil {
		writeFormError(w, err)
		return
	}
	defer form.Close()

	photo, err := form.file("photo")
	if err != nil {
		writeFormError(w, err)
		return
	}

	user, pair, err := h.SessionService.Register(r.Context(), service.RegisterInput{
		Name:     form.value("name"),
		Email:    form.value("email"),
		Password: form.value("password"),
		Photo:    photo,
	})
	if err != nil {
		writeError(w, r, err, conflictEmail, "")
		return
	}

	h.setSession(w, pair)
	httpx.WriteJSON(w, http.StatusCreated, authsdk.AuthResponse{
		Message: "User registered successfully",
		User:    toUser(user),
	})
}

// HandleLogin signs a user in.
//
//	@Summary		Login
//	@Description	Checks email and password and starts a new session. Every earlier session of the user ends.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.AuthResponse
//	@Failure		400		{object}	authsdk.ValidationErrorResponse
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid email or password"
//	@Failure		429		{object}	authsdk.ErrorResponse
//	@Router			/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, pair, err := h.SessionService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err, "", "")
		return
	}

	h.setSession(w, pair)
	httpx.WriteJSON(w, http.StatusOK, authsdk.AuthResponse{
		Message: "Login successful",
		User:    toUser(user),
	})
}

// HandleLoggedIn returns the session's user.
//
//	@Summary	Current user
//	@Tags		Session
//	@Produce	json
//	@Security	CookieAuth
//	@Success	200	{object}	authsdk.UserResponse
//	@Failure	401	{object}	authsdk.ErrorResponse
//	@Router		/logged_in [get].
func (h *AuthHandler) HandleLoggedIn(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{User: toUser(user)})
}

// HandleRefresh trades the refresh cookie for a new pair.
//
//	@Summary		Refresh session
//	@Description	Requires the refreshToken cookie. Both tokens are replaced and the old pair stops working.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse
//	@Failure		401	{object}	authsdk.ErrorResponse
//	@Router			/refreshToken [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	_, pair, err := h.SessionService.Refresh(r.Context(), user)
	if err != nil {
		writeError(w, r, err, "", "")
		return
	}

	h.setSession(w, pair)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "Session refreshed"})
}

// HandleLogout ends every session of the user.
//
//	@Summary	Logout
//	@Tags		Session
//	@Produce	json
//	@Security	CookieAuth
//	@Success	200	{object}	authsdk.MessageResponse
//	@Failure	401	{object}	authsdk.ErrorResponse
//	@Router		/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	h.clearSession(w)
	if err := h.SessionService.Logout(r.Context(), user); err != nil {
		writeError(w, r, err, "", "")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "Logged out successfully"})
}

package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/service"
	"github.com/aussiebroadwan/bookworm/pkg/authsdk"
	"github.com/aussiebroadwan/bookworm/pkg/httpx"
	"github.com/aussiebroadwan/bookworm/pkg/slogx"
)

type ctxKeyUser struct{}

func contextWithUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser{}, u)
}

// UserFromContext returns the user verified by RequireSession.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKeyUser{}).(domain.User)
	return u, ok
}

// RequireSession verifies the token of the given kind from its cookie and
// attaches the user to the request. Every failure gets the same 401 body.
func RequireSession(sessions *service.SessionService, kind domain.TokenKind) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := slogx.FromContext(r.Context())

			user, err := sessions.Verify(r.Context(), kind, httpx.CookieValue(r, kind.CookieName()))
			if err != nil {
				if isSessionError(err) {
					l.Info("session rejected", slog.String("kind", kind.String()), slog.String("reason", err.Error()))
					authsdk.ErrUnauthorized.WriteError(w)
					return
				}
				l.Error("session verification failed", slog.Any("error", err))
				authsdk.ErrServerError.WriteError(w)
				return
			}

			ctx := contextWithUser(r.Context(), user)
			ctx = httpx.ContextWithUserID(ctx, user.ID)
			ctx = slogx.WithUserID(ctx, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects verified users that do not hold role with 403. It
// must run after RequireSession.
func RequireRole(role domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				authsdk.ErrUnauthorized.WriteError(w)
				return
			}
			if err := service.RequireRole(user, role); err != nil {
				slogx.FromContext(r.Context()).Info("role check failed", slog.String("required", string(role)))
				authsdk.ErrForbidden.WriteError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isSessionError(err error) bool {
	return errors.Is(err, service.ErrUnauthenticated) ||
		errors.Is(err, service.ErrInvalidToken) ||
		errors.Is(err, service.ErrSessionExpired)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/media"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"github.com/aussiebroadwan/bookworm/pkg/cryptox"
	"github.com/aussiebroadwan/bookworm/pkg/jwtx"
	"github.com/aussiebroadwan/bookworm/pkg/slogx"
)

// SessionService issues, verifies and rotates the per-user session tokens.
//
// Every user carries two secrets, one signing access tokens and one signing
// refresh tokens. A token is valid only while it has not expired and its
// signature matches the current secret of its kind, so replacing the secrets
// (Rotate) revokes every token the user holds.
type SessionService struct {
	Store      store.Store
	Media      media.Uploader
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Unverified is a token whose claims were read but whose signature has not
// been checked. UserID only says which user record to verify against.
type Unverified struct {
	Kind      domain.TokenKind
	UserID    string
	ExpiresAt time.Time
	raw       string
}

type RegisterInput struct {
	Name     string        `json:"name" validate:"required,max=100"`
	Email    string        `json:"email" validate:"required,email,max=254"`
	Password string        `json:"password" validate:"required,max=128"`
	Photo    *media.Object `json:"photo" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *SessionService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *SessionService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

// MintAccessToken signs a short lived token with the user's access secret.
func (s *SessionService) MintAccessToken(user domain.User) (string, time.Time, error) {
	return s.mint(user, domain.AccessToken, s.accessTTL())
}

// MintRefreshToken signs a long lived token with the user's refresh secret.
func (s *SessionService) MintRefreshToken(user domain.User) (string, time.Time, error) {
	return s.mint(user, domain.RefreshToken, s.refreshTTL())
}

func (s *SessionService) mint(user domain.User, kind domain.TokenKind, ttl time.Duration) (string, time.Time, error) {
	claims := jwtx.NewClaims(user.ID, ttl, time.Now())
	token, err := jwtx.Sign(claims, user.Credentials.SecretFor(kind))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("mint %s token: %w", kind, err)
	}
	return token, claims.Expiry(), nil
}

func (s *SessionService) mintPair(user domain.User) (domain.TokenPair, error) {
	var (
		pair domain.TokenPair
		err  error
	)
	pair.AccessToken, pair.AccessExpiresAt, err = s.MintAccessToken(user)
	if err != nil {
		return domain.TokenPair{}, err
	}
	pair.RefreshToken, pair.RefreshExpiresAt, err = s.MintRefreshToken(user)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return pair, nil
}

// Decode reads the claimed user id from raw without touching the user
// directory. Structurally broken and already expired tokens stop here.
func (s *SessionService) Decode(kind domain.TokenKind, raw string) (Unverified, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unverified{}, ErrUnauthenticated
	}

	claims, err := jwtx.DecodeUnverified(raw)
	if err != nil {
		return Unverified{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if err := claims.ValidateExpiry(); err != nil {
		return Unverified{}, ErrSessionExpired
	}

	return Unverified{Kind: kind, UserID: claims.UserID, ExpiresAt: claims.Expiry(), raw: raw}, nil
}

// Resolve loads the claimed user and checks the token signature against the
// user's current secret for the token's kind.
func (s *SessionService) Resolve(ctx context.Context, u Unverified) (domain.User, error) {
	if u.raw == "" || u.UserID == "" {
		return domain.User{}, ErrUnauthenticated
	}

	user, err := s.Store.Users().GetUserByID(ctx, u.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnauthenticated
		}
		return domain.User{}, fmt.Errorf("lookup session user: %w", err)
	}

	// A row missing either secret cannot hold a session until a login
	// rotates it.
	if user.Credentials.IsZero() {
		slogx.FromContext(ctx).Warn("session user has incomplete credentials", slog.String("user_id", user.ID))
		return domain.User{}, ErrUnauthenticated
	}

	claims, err := jwtx.Verify(u.raw, user.Credentials.SecretFor(u.Kind))
	if err != nil || claims.UserID != user.ID {
		slogx.FromContext(ctx).Debug("session token rejected",
			slog.String("kind", u.Kind.String()),
			slog.Any("error", err),
		)
		return domain.User{}, ErrSessionExpired
	}

	return user, nil
}

// Verify is Decode followed by Resolve.
func (s *SessionService) Verify(ctx context.Context, kind domain.TokenKind, raw string) (domain.User, error) {
	u, err := s.Decode(kind, raw)
	if err != nil {
		return domain.User{}, err
	}
	return s.Resolve(ctx, u)
}

// RequireRole fails with ErrForbidden unless user holds role.
func RequireRole(user domain.User, role domain.Role) error {
	if user.Role != role {
		return ErrForbidden
	}
	return nil
}

// Register creates a user account with the role "user" and returns its
// first token pair.
func (s *SessionService) Register(ctx context.Context, in RegisterInput) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	in.Name = strings.TrimSpace(in.Name)
	in.Email = normaliseEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	// Checked before the upload so a duplicate never leaves an orphaned photo.
	_, err := s.Store.Users().GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return domain.User{}, domain.TokenPair{}, ErrConflict
	case !errors.Is(err, store.ErrNotFound):
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	photo := *in.Photo
	photo.Folder = media.FolderProfilePhoto
	photoURL, err := s.Media.Upload(ctx, photo)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, uploadError("photo", err)
	}

	creds, err := domain.NewCredentials()
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	user := domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Photo:        photoURL,
		Credentials:  creds,
		CreatedAt:    time.Now().UTC(),
	}
	user.ID, err = s.Store.Users().CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, domain.TokenPair{}, ErrConflict
		}
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.mintPair(user)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("user registered", slog.String("user_id", user.ID))
	return user, pair, nil
}

// Login checks the password and rotates the user's secrets, which signs
// out every other session of the user.
func (s *SessionService) Login(ctx context.Context, in LoginInput) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	in.Email = normaliseEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Pay for a hash anyway so response time does not tell which
			// emails have accounts.
			_ = cryptox.VerifyPassword(in.Password, decoyHash())
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("lookup email: %w", err)
	}

	if err := cryptox.VerifyPassword(in.Password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("stored password hash unusable", slog.String("user_id", user.ID), slog.Any("error", err))
		}
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	if cryptox.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, in.Password)
	}

	return s.Rotate(ctx, user)
}

var (
	decoyOnce sync.Once
	decoy     string
)

// decoyHash is a hash with the current parameters that no password is
// expected to match.
func decoyHash() string {
	decoyOnce.Do(func() {
		if secret, err := cryptox.GenerateSecret(); err == nil {
			decoy, _ = cryptox.HashPassword(secret)
		}
	})
	return decoy
}

// rehash upgrades a verified password to the current hash parameters. A
// failure only costs the upgrade, so the login goes ahead regardless.
func (s *SessionService) rehash(ctx context.Context, userID, password string) {
	l := slogx.FromContext(ctx)
	hash, err := cryptox.HashPassword(password)
	if err == nil {
		err = s.Store.Users().UpdatePasswordHash(ctx, userID, hash)
	}
	if err != nil {
		l.Warn("password rehash failed", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	l.Info("password rehashed", slog.String("user_id", userID))
}

// Refresh rotates the secrets of a user proven by a refresh token.
func (s *SessionService) Refresh(ctx context.Context, user domain.User) (domain.User, domain.TokenPair, error) {
	return s.Rotate(ctx, user)
}

// Logout rotates the user's secrets and throws the new tokens away.
func (s *SessionService) Logout(ctx context.Context, user domain.User) error {
	_, _, err := s.Rotate(ctx, user)
	return err
}

// Rotate replaces both secrets of user in one write and mints a pair from
// the new ones. Tokens signed with the old secrets stop verifying as soon
// as the write lands.
func (s *SessionService) Rotate(ctx context.Context, user domain.User) (domain.User, domain.TokenPair, error) {
	creds, err := domain.NewCredentials()
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := s.Store.Users().UpdateCredentials(ctx, user.ID, creds); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrUnauthenticated
		}
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("rotate credentials: %w", err)
	}
	user.Credentials = creds

	pair, err := s.mintPair(user)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	slogx.FromContext(ctx).Debug("session rotated", slog.String("user_id", user.ID))
	return user, pair, nil
}

// SetRole lets an admin promote or demote another user. The last admin
// cannot be demoted.
func (s *SessionService) SetRole(ctx context.Context, actor domain.User, userID string, role domain.Role) (domain.User, error) {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return domain.User{}, err
	}
	if !role.Valid() {
		return domain.User{}, fieldError("role", "must be one of: user admin")
	}

	users := s.Store.Users()
	target, err := users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	if target.Role == role {
		return target, nil
	}

	demoting := target.Role == domain.RoleAdmin
	if demoting {
		admins, err := users.CountByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return domain.User{}, err
		}
		if admins <= 1 {
			return domain.User{}, errLastAdmin
		}
	}

	if err := users.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}

	// Two admins demoting each other can both pass the count above. Whoever
	// counts zero after writing puts their target back, so at least one
	// admin always survives.
	if demoting {
		if err := s.keepAnAdmin(ctx, target); err != nil {
			return domain.User{}, err
		}
	}
	target.Role = role

	slogx.FromContext(ctx).Info("user role changed",
		slog.String("user_id", target.ID),
		slog.String("role", string(role)),
		slog.String("by", actor.ID),
	)
	return target, nil
}

var errLastAdmin = fmt.Errorf("%w: cannot demote the last admin", ErrConflict)

// keepAnAdmin restores demoted to admin when no admin is left.
func (s *SessionService) keepAnAdmin(ctx context.Context, demoted domain.User) error {
	users := s.Store.Users()
	admins, err := users.CountByRole(ctx, domain.RoleAdmin)
	if err == nil && admins > 0 {
		return nil
	}
	if rerr := users.UpdateRole(ctx, demoted.ID, domain.RoleAdmin); rerr != nil {
		slogx.FromContext(ctx).Error("failed to restore last admin",
			slog.String("user_id", demoted.ID),
			slog.Any("error", rerr),
		)
		return fmt.Errorf("restore admin: %w", rerr)
	}
	if err != nil {
		return err
	}
	return errLastAdmin
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// uploadError reports rejected files against the form field they came from.
func uploadError(field string, err error) error {
	switch {
	case errors.Is(err, media.ErrUnsupportedFormat):
		return fieldError(field, "unsupported file format")
	case errors.Is(err, media.ErrEmptyObject):
		return fieldError(field, "is required")
	}
	return fmt.Errorf("upload %s: %w", field, err)
}

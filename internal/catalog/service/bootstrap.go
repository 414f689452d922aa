package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"github.com/aussiebroadwan/bookworm/pkg/cryptox"
	"github.com/aussiebroadwan/bookworm/pkg/slogx"
)

var (
	ErrBootstrapDisabled     = errors.New("bootstrap disabled")
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService creates the first admin account.
type BootstrapService struct {
	Store store.Store
	Token string // empty disables bootstrapping

	// mu makes the admin check and the insert one step for this process.
	mu sync.Mutex
}

type bootstrapInput struct {
	Name     string `json:"admin_name" validate:"required,max=100"`
	Email    string `json:"admin_email" validate:"required,email,max=254"`
	Password string `json:"admin_password" validate:"max=128"`
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	admins, err := s.Store.Users().CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, err
	}
	return admins > 0, nil
}

// Bootstrap creates an admin from req when token matches and no admin
// exists yet. When no password is supplied one is generated and returned.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req domain.BootstrapData) (domain.User, string, error) {
	l := slogx.FromContext(ctx)

	if s.Token == "" {
		return domain.User{}, "", ErrBootstrapDisabled
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt", slog.String("token_fp", cryptox.FingerprintToken(token)))
		return domain.User{}, "", ErrBootstrapUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bootstrapped, err := s.IsBootstrapped(ctx)
	if err != nil {
		return domain.User{}, "", err
	}
	if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.User{}, "", ErrBootstrapAlready
	}

	in := bootstrapInput{
		Name:     strings.TrimSpace(req.AdminName),
		Email:    normaliseEmail(req.AdminEmail),
		Password: req.AdminPassword,
	}
	if err := validateStruct(in); err != nil {
		return domain.User{}, "", err
	}

	password := in.Password
	if password == "" {
		if password, err = cryptox.GeneratePassword(); err != nil {
			return domain.User{}, "", err
		}
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash admin password: %w", err)
	}

	creds, err := domain.NewCredentials()
	if err != nil {
		return domain.User{}, "", err
	}

	admin := domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Credentials:  creds,
		CreatedAt:    time.Now().UTC(),
	}
	admin.ID, err = s.Store.Users().CreateUser(ctx, admin)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", ErrConflict
		}
		return domain.User{}, "", fmt.Errorf("create admin: %w", err)
	}

	l.Info("successfully bootstrapped system", slog.String("admin_user_id", admin.ID))

	if in.Password != "" {
		password = ""
	}
	return admin, password, nil
}

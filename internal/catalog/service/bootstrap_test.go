package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/service"
	"github.com/stretchr/testify/require"
)

func TestBootstrap(t *testing.T) {
	f := newFixture(t)
	svc := &service.BootstrapService{Store: f.store, Token: "let-me-in"}
	req := domain.BootstrapData{AdminName: "Admin", AdminEmail: "Admin@X.com", AdminPassword: "Admin123!"}

	_, _, err := svc.Bootstrap(t.Context(), "wrong", req)
	require.ErrorIs(t, err, service.ErrBootstrapUnauthorized)

	ok, err := svc.IsBootstrapped(t.Context())
	require.NoError(t, err)
	require.False(t, ok)

	admin, generated, err := svc.Bootstrap(t.Context(), "let-me-in", req)
	require.NoError(t, err)
	require.Empty(t, generated)
	require.Equal(t, domain.RoleAdmin, admin.Role)
	require.Equal(t, "admin@x.com", admin.Email)

	_, _, err = svc.Bootstrap(t.Context(), "let-me-in", req)
	require.ErrorIs(t, err, service.ErrBootstrapAlready)

	_, _, err = f.sessions.Login(t.Context(), service.LoginInput{Email: "admin@x.com", Password: "Admin123!"})
	require.NoError(t, err)
}

func TestBootstrap_GeneratesPassword(t *testing.T) {
	f := newFixture(t)
	svc := &service.BootstrapService{Store: f.store, Token: "t"}

	_, generated, err := svc.Bootstrap(t.Context(), "t", domain.BootstrapData{AdminName: "Admin", AdminEmail: "root@x.com"})
	require.NoError(t, err)
	require.Len(t, generated, 12)

	_, _, err = f.sessions.Login(t.Context(), service.LoginInput{Email: "root@x.com", Password: generated})
	require.NoError(t, err)
}

func TestBootstrap_Disabled(t *testing.T) {
	f := newFixture(t)
	svc := &service.BootstrapService{Store: f.store}

	_, _, err := svc.Bootstrap(t.Context(), "", domain.BootstrapData{})
	require.ErrorIs(t, err, service.ErrBootstrapDisabled)
}

func TestBootstrap_ConcurrentCallsCreateOneAdmin(t *testing.T) {
	f := newFixture(t)
	svc := &service.BootstrapService{Store: f.store, Token: "t"}

	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = svc.Bootstrap(context.Background(), "t", domain.BootstrapData{
				AdminName:     "Admin",
				AdminEmail:    fmt.Sprintf("admin%d@x.com", i),
				AdminPassword: "Admin123!",
			})
		}()
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, service.ErrBootstrapAlready)
	}
	require.Equal(t, 1, ok)

	admins, err := f.store.Users().CountByRole(t.Context(), domain.RoleAdmin)
	require.NoError(t, err)
	require.EqualValues(t, 1, admins)
}

package http

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/media"
	"github.com/aussiebroadwan/bookworm/internal/catalog/service"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store/drivers/sqlite"
	"github.com/aussiebroadwan/bookworm/pkg/authsdk"
	"github.com/aussiebroadwan/bookworm/pkg/cryptox"
	"github.com/aussiebroadwan/bookworm/pkg/httpx"
	"github.com/aussiebroadwan/bookworm/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct horse battery"

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "bookworm-http")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	// Every test server shares 127.0.0.1, so the per-IP limits would trip
	// across tests. TestRateLimit restores a tight limit for itself.
	httpx.StrictLimit = httpx.PublicLimit
	httpx.ModerateLimit = httpx.PublicLimit
	httpx.LenientLimit = httpx.PublicLimit

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type testServer struct {
	*httptest.Server
	store store.Store
	media *media.Memory
}

type serverOption func(*Router)

func withBootstrapToken(token string) serverOption {
	return func(r *Router) { r.BootstrapService.Token = token }
}

func withMaxUploadBytes(n int64) serverOption {
	return func(r *Router) { r.MaxUploadBytes = n }
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations(context.Background()))
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	mem := media.NewMemory()

	router := NewRouter("test", st, slogx.New(slogx.Config{Service: "bookworm-test", Level: "error"}))
	router.Cookies = httpx.CookiePolicyFor("test", false)
	router.SessionService = &service.SessionService{Store: st, Media: mem}
	router.CatalogService = &service.CatalogService{Store: st, Media: mem}
	router.BootstrapService = &service.BootstrapService{Store: st}
	for _, opt := range opts {
		opt(router)
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, store: st, media: mem}
}

// client returns a client without a session. Auto refresh is off so that
// rejections surface directly.
func (s *testServer) client(t *testing.T) *authsdk.Client {
	t.Helper()
	c, err := authsdk.NewClient(s.URL)
	require.NoError(t, err)
	c.AutoRefresh = false
	return c
}

func png() authsdk.File {
	return authsdk.File{Name: "avatar.png", Content: strings.NewReader("png bytes")}
}

// register signs a new user in on a fresh client.
func (s *testServer) register(t *testing.T, name, email string) (*authsdk.Client, authsdk.User) {
	t.Helper()
	c := s.client(t)
	resp, err := c.Register(t.Context(), authsdk.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: testPassword,
		Photo:    png(),
	})
	require.NoError(t, err)
	return c, resp.User
}

// admin registers a user and promotes it directly in the store.
func (s *testServer) admin(t *testing.T) *authsdk.Client {
	t.Helper()
	c, u := s.register(t, "Admin", "admin@bookworm.test")
	require.NoError(t, s.store.Users().UpdateRole(t.Context(), u.ID, domain.RoleAdmin))
	return c
}

func requireStatus(t *testing.T, want int, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, authsdk.StatusCode(err), "error: %v", err)
}

package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/media"
	"github.com/aussiebroadwan/bookworm/internal/catalog/service"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store/drivers/sqlite"
	"github.com/aussiebroadwan/bookworm/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "bookworm-service")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// countingStore records how often the user directory is looked up by id.
type countingStore struct {
	store.Store
	lookups atomic.Int64
}

func (s *countingStore) Users() store.Users {
	return &countingUsers{Users: s.Store.Users(), n: &s.lookups}
}

type countingUsers struct {
	store.Users
	n *atomic.Int64
}

func (u *countingUsers) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u.n.Add(1)
	return u.Users.GetUserByID(ctx, id)
}

func newStore(t *testing.T) *countingStore {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations(context.Background()))
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return &countingStore{Store: st}
}

func photo(name string) *media.Object {
	return &media.Object{Filename: name, Body: strings.NewReader("img"), Size: 3}
}

type fixture struct {
	store    *countingStore
	media    *media.Memory
	sessions *service.SessionService
	catalog  *service.CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := newStore(t)
	mem := media.NewMemory()
	return &fixture{
		store:    st,
		media:    mem,
		sessions: &service.SessionService{Store: st, Media: mem},
		catalog:  &service.CatalogService{Store: st, Media: mem},
	}
}

func (f *fixture) register(t *testing.T, email string) (domain.User, domain.TokenPair) {
	t.Helper()
	u, pair, err := f.sessions.Register(t.Context(), service.RegisterInput{
		Name:     "Reader",
		Email:    email,
		Password: "pw123456",
		Photo:    photo("me.png"),
	})
	require.NoError(t, err)
	return u, pair
}

// promote makes u an admin directly in the store.
func (f *fixture) promote(t *testing.T, u domain.User) domain.User {
	t.Helper()
	require.NoError(t, f.store.Users().UpdateRole(t.Context(), u.ID, domain.RoleAdmin))
	u.Role = domain.RoleAdmin
	return u
}

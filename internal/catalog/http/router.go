package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/media"
	"github.com/aussiebroadwan/bookworm/internal/catalog/service"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"github.com/aussiebroadwan/bookworm/pkg/httpx"
	"github.com/aussiebroadwan/bookworm/pkg/slogx"

	_ "github.com/aussiebroadwan/bookworm/api/catalog" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// DefaultMaxUploadBytes bounds multipart bodies (register, add-book).
const DefaultMaxUploadBytes = 32 << 20

// maxJSONBytes bounds JSON bodies.
const maxJSONBytes = 64 << 10

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Cookies        httpx.CookiePolicy
	CORSOrigins    []string
	MaxUploadBytes int64

	// Media serves uploaded files when they are stored on local disk.
	Media http.Handler

	SessionService   *service.SessionService
	CatalogService   *service.CatalogService
	BootstrapService *service.BootstrapService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		store:          st,
		logger:         logger,
		Cookies:        httpx.CookiePolicyFor("", true),
		MaxUploadBytes: DefaultMaxUploadBytes,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	if len(r.CORSOrigins) > 0 {
		r.middlewares = append(r.middlewares, httpx.CORS(r.CORSOrigins))
	}

	r.registerSession()
	r.registerGenres()
	r.registerBooks()
	r.registerUsers()
	r.registerSystem()
	r.registerBootstrap()
	r.registerMedia()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			BookWorm Catalog API
//	@version		0.1.0
//	@description	Book catalog backend: accounts, cookie sessions, genres, books and media uploads.
//	@description
//	@description	Sessions travel in the HttpOnly cookies accessToken (50 minutes) and refreshToken (20 days).
//	@description	Each user has their own signing secrets; login, refresh and logout replace them, which ends every other session of that user.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/bookworm
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:5000
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						accessToken
//	@description				Access token cookie set by /login, /register and /refreshToken.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// Rate limits run before the session guard, so token probing is throttled
// before it can reach the user directory.
func (r *Router) registerSession() {
	h := &AuthHandler{
		SessionService: r.SessionService,
		Cookies:        r.Cookies,
		MaxUploadBytes: r.MaxUploadBytes,
	}

	// POST /register - strict rate limit by IP (public signup endpoint)
	r.Mux.Handle("POST /register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit by IP + email to slow credential stuffing
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndField(httpx.StrictLimit, "email"),
		),
	)

	r.Mux.Handle("GET /logged_in",
		httpx.Chain(http.HandlerFunc(h.HandleLoggedIn),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			RequireSession(r.SessionService, domain.AccessToken),
		),
	)

	r.Mux.Handle("POST /refreshToken",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			RequireSession(r.SessionService, domain.RefreshToken),
		),
	)

	r.Mux.Handle("POST /logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			RequireSession(r.SessionService, domain.AccessToken),
		),
	)
}

// admin guards a handler behind an admin access token. The IP limit bounds
// directory lookups, the user limit bounds what an admin can do.
func (r *Router) admin(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.RateLimitByIP(httpx.LenientLimit),
		RequireSession(r.SessionService, domain.AccessToken),
		RequireRole(domain.RoleAdmin),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
}

func (r *Router) registerGenres() {
	h := &GenresHandler{CatalogService: r.CatalogService}

	r.Mux.Handle("POST /add-genre", r.admin(h.HandleAdd))
	r.Mux.Handle("PUT /update-genre/{id}", r.admin(h.HandleUpdate))
	r.Mux.Handle("DELETE /deleteGenre/{id}", r.admin(h.HandleDelete))

	// GET /genre - public read, high limit
	r.Mux.Handle("GET /genre",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerBooks() {
	h := &BooksHandler{CatalogService: r.CatalogService, MaxUploadBytes: r.MaxUploadBytes}

	r.Mux.Handle("POST /add-book", r.admin(h.HandleAdd))

	r.Mux.Handle("GET /books",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /books/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{SessionService: r.SessionService}

	r.Mux.Handle("PUT /users/{id}/role", r.admin(h.HandleSetRole))
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /bootstrap",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /{$}",
		httpx.Chain(http.HandlerFunc(HomeHandler),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.uploader()),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) uploader() media.Uploader {
	if r.CatalogService == nil {
		return nil
	}
	return r.CatalogService.Media
}

func (r *Router) registerMedia() {
	if r.Media == nil {
		return
	}
	r.Mux.Handle("GET "+media.URLPrefix,
		httpx.Chain(r.Media,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

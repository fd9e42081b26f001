package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
	"github.com/aussiebroadwan/doorman/pkg/jwtx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	accessVerifier jwtx.Verifier
	buildVersion   string
	startTime      time.Time
	logger         *slog.Logger
	devMode        bool

	store        store.Store
	TokenService *service.TokenService
	UserService  *service.UserService
}

func NewRouter(
	accessVerifier jwtx.Verifier,
	buildVersion string,
	devMode bool,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		accessVerifier: accessVerifier,
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		devMode:        devMode,
		store:          st,
		logger:         logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Credential-accepting endpoints carry the strict per-IP limit to slow
	// brute forcing.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(
			&RegisterHandler{
				UserService:  r.UserService,
				TokenService: r.TokenService,
				DevMode:      r.devMode,
			},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(
			&LoginHandler{TokenService: r.TokenService, DevMode: r.devMode},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/renew",
		httpx.Chain(
			&RenewHandler{TokenService: r.TokenService, DevMode: r.devMode},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(
			&LogoutHandler{TokenService: r.TokenService, DevMode: r.devMode},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	r.Mux.Handle("GET /v1/userinfo",
		httpx.Chain(
			&UserInfoHandler{UserService: r.UserService},
			httpx.AuthnMiddleware(r.accessVerifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /v1/users",
		httpx.Chain(
			&UsersHandler{UserService: r.UserService},
			httpx.AuthnMiddleware(r.accessVerifier),
			httpx.RequireRole(domain.RoleAdmin.String()),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

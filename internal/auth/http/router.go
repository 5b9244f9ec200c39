package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ticketloft/auth/internal/auth/service"
	"github.com/ticketloft/auth/internal/auth/store"
	"github.com/ticketloft/auth/pkg/httpx"
	"github.com/ticketloft/auth/pkg/slogx"

	_ "github.com/ticketloft/auth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	SessionService *service.SessionService
}

func NewRouter(issuer, buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title			Ticketloft Auth Service API
//	@version		0.1.0
//	@description	Credential and session authority: account registration, password login,
//	@description	HMAC-signed access/refresh tokens, and jti-based revocation so logout
//	@description	invalidates tokens before their natural expiry.
//
//	@contact.name				Ticketloft Platform Team
//	@contact.url				https://github.com/ticketloft/auth
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	r.Mux.Handle("POST /v1/auth/register", &RegisterHandler{Sessions: r.SessionService})
	r.Mux.Handle("POST /v1/auth/login", &LoginHandler{Sessions: r.SessionService})
	r.Mux.Handle("POST /v1/auth/refresh", &RefreshHandler{Sessions: r.SessionService})

	// Logout verifies the presented token itself (the whole operation is
	// "authenticate, then revoke"), so it does not sit behind the authn
	// middleware.
	r.Mux.Handle("POST /v1/auth/logout", &LogoutHandler{Sessions: r.SessionService})

	// Protected endpoints: the middleware verifies the access token and
	// injects the claims.
	me := httpx.Chain(&MeHandler{Sessions: r.SessionService},
		httpx.AuthnMiddleware(r.SessionService),
	)
	r.Mux.Handle("GET /v1/auth/me", me)

	changePassword := httpx.Chain(&ChangePasswordHandler{Sessions: r.SessionService},
		httpx.AuthnMiddleware(r.SessionService),
	)
	r.Mux.Handle("POST /v1/auth/change-password", changePassword)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/commonsapp/commons/internal/commons/service"
	"github.com/commonsapp/commons/internal/commons/store"
	"github.com/commonsapp/commons/pkg/httpx"
	"github.com/commonsapp/commons/pkg/jwtx"
	"github.com/commonsapp/commons/pkg/slogx"

	_ "github.com/commonsapp/commons/api/commons" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       *jwtx.Signer
	buildVersion string
	logger       *slog.Logger
	store        store.Store

	LoginService     *service.LoginService
	TwoFactorService *service.TwoFactorService
	GateService      *service.GateService
	UserService      *service.UserService
	CommunityService *service.CommunityService
	BootstrapService *service.BootstrapService
}

func NewRouter(signer *jwtx.Signer, buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		buildVersion: buildVersion,
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
	r.registerTwoFactor()
	r.registerCommunities()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Commons Authentication Service API
//	@version		0.1.0
//	@description	Authentication and access-gate core for the commons community platform: password login, TOTP two-factor enrollment and step-up verification, recovery codes, platform roles, and community membership gating.
//	@description
//	@description				Session tokens are HS256-signed JWTs carried as Bearer tokens.
//
//	@contact.name				Commons Team
//	@contact.url				https://github.com/commonsapp/commons
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
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &LoginHandler{LoginService: r.LoginService}

	// Strict limits on both: these are the credential brute-force surfaces.
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/login/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerTwoFactor() {
	h := &TwoFactorHandler{
		TwoFactorService: r.TwoFactorService,
		UserService:      r.UserService,
	}

	authed := func(next http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("GET /v1/2fa", authed(h.HandleStatus, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/2fa/setup", authed(h.HandleSetup, httpx.ModerateLimit))
	// Activation and code-guarded management verify codes: strict.
	r.Mux.Handle("POST /v1/2fa/activate", authed(h.HandleActivate, httpx.StrictLimit))
	r.Mux.Handle("POST /v1/2fa/recovery-codes", authed(h.HandleRegenerate, httpx.StrictLimit))
	r.Mux.Handle("DELETE /v1/2fa", authed(h.HandleDisable, httpx.StrictLimit))
}

func (r *Router) registerCommunities() {
	h := &CommunityHandler{GateService: r.GateService}

	// Optional authn: the gate classifies anonymous requests itself and
	// answers with the login redirect rather than a bare 401.
	r.Mux.Handle("GET /v1/communities/{slug}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.OptionalAuthnMiddleware(r.signer),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{
		GateService:      r.GateService,
		UserService:      r.UserService,
		CommunityService: r.CommunityService,
	}

	admin := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.OptionalAuthnMiddleware(r.signer),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/admin/users", admin(h.HandleCreateUser))
	r.Mux.Handle("GET /v1/admin/users", admin(h.HandleListUsers))
	r.Mux.Handle("POST /v1/admin/communities", admin(h.HandleCreateCommunity))
	r.Mux.Handle("GET /v1/admin/communities", admin(h.HandleListCommunities))
	r.Mux.Handle("PUT /v1/admin/communities/{id}/members/{userID}", admin(h.HandleUpsertMembership))
}

func (r *Router) registerSystem() {
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(http.HandlerFunc(bootstrapHandler.HandleBootstrap),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /livez", LivezHandler(r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.buildVersion, r.store))
}

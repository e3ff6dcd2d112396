package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/service"
	"github.com/aussiebroadwan/onboard/internal/onboard/store"
	"github.com/aussiebroadwan/onboard/pkg/httpx"
	"github.com/aussiebroadwan/onboard/pkg/jwtx"
	"github.com/aussiebroadwan/onboard/pkg/slogx"

	_ "github.com/aussiebroadwan/onboard/api/onboard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	// Coarse in-memory limits; set before ApplyRoutes.
	PublicLimit httpx.RateLimitConfig
	AdminLimit  httpx.RateLimitConfig

	// Proxies whose X-Forwarded-For is believed when keying public limits.
	Proxies httpx.TrustedProxies

	store               store.Store
	RegistrationService *service.RegistrationService
	AccountService      *service.AccountService
	InvitationService   *service.InvitationService
	MembershipService   *service.MembershipService
	UserService         *service.UserService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		PublicLimit:  httpx.StrictLimit,
		AdminLimit:   httpx.ModerateLimit,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerRegistration()
	r.registerAccounts()
	r.registerInvitations()
	r.registerMemberships()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Onboard API
//	@version		0.1.0
//	@description	Account onboarding for the platform: self-service trial signup, account provisioning,
//	@description	invitations, membership administration and user lifecycle.
//	@description
//	@description				Every failure returns a JSON body with a stable upper snake case code and a message.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/onboard
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
//	@description				HS256 access token issued by the identity provider. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with bearer authentication and the per-user admin limit.
func (r *Router) secured(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(r.AdminLimit),
	)
}

func (r *Router) registerRegistration() {
	h := &RegisterHandler{RegistrationService: r.RegistrationService, ClientIP: r.Proxies.ClientIP}

	// POST /register - strict rate limit by client IP (public signup endpoint)
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(h,
			httpx.RateLimitMiddleware(r.PublicLimit, r.Proxies.ClientIP),
		),
	)
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{AccountService: r.AccountService}

	r.Mux.Handle("POST /v1/accounts", r.secured(h.HandleProvision))
	r.Mux.Handle("PATCH /v1/accounts/{id}/status", r.secured(h.HandleSetStatus))
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InvitationService: r.InvitationService}

	r.Mux.Handle("POST /v1/accounts/{id}/invitations", r.secured(h.HandleCreate))
	r.Mux.Handle("POST /v1/invitations/{id}/revoke", r.secured(h.HandleRevoke))
	r.Mux.Handle("POST /v1/invitations/{id}/resend", r.secured(h.HandleResend))
}

func (r *Router) registerMemberships() {
	h := &MembershipsHandler{MembershipService: r.MembershipService}

	r.Mux.Handle("PATCH /v1/memberships/{id}", r.secured(h.HandleChangeRole))
	r.Mux.Handle("DELETE /v1/memberships/{id}", r.secured(h.HandleRemove))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("DELETE /v1/users/{id}", r.secured(h.HandleDelete))
	r.Mux.Handle("POST /v1/users/password-reset", r.secured(h.HandleResetPassword))
	r.Mux.Handle("PATCH /v1/users/{id}/credentials", r.secured(h.HandleUpdateCredentials))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

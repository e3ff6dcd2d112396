package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/identity/local"
	"github.com/aussiebroadwan/onboard/internal/onboard/service"
	"github.com/aussiebroadwan/onboard/internal/onboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/onboard/pkg/cryptox"
	"github.com/aussiebroadwan/onboard/pkg/httpx"
	"github.com/aussiebroadwan/onboard/pkg/idx"
	"github.com/aussiebroadwan/onboard/pkg/jwtx"
	"github.com/aussiebroadwan/onboard/pkg/onboardsdk"
	"github.com/aussiebroadwan/onboard/pkg/slogx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("super-secret-jwt-token-with-at-least-32-characters")

type testEnv struct {
	ctx    context.Context
	store  *sqlite.Store
	idp    *local.Gateway
	router *Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, nil)
}

// newTestEnvWith lets a test adjust the router before routes are applied.
func newTestEnvWith(t *testing.T, configure func(*Router)) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "onboard.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	idp := local.New(cryptox.Pepper("test-pepper"))
	authz := &service.Authorizer{Store: st}
	resolver := &service.TargetResolver{Store: st, Identity: idp, Lookup: idp}
	reaper := &service.GhostReaper{Store: st, Identity: idp}
	sender := &service.InviteSender{
		Identity: idp,
		Resolver: resolver,
		Reaper:   reaper,
		Sleep:    func(time.Duration) {},
	}
	audit := &service.Auditor{Store: st}
	invitations := &service.InvitationService{
		Store:             st,
		Authz:             authz,
		Resolver:          resolver,
		Reaper:            reaper,
		Sender:            sender,
		Audit:             audit,
		InviteRedirectURL: "https://app.example.com/auth/accept-invite",
	}

	r := NewRouter(jwtx.NewHS256Verifier(testSecret, "", nil), "test", st, slogx.Discard())
	r.RegistrationService = &service.RegistrationService{
		Store:       st,
		Resolver:    resolver,
		Reaper:      reaper,
		Invitations: invitations,
		Audit:       audit,
		Pepper:      cryptox.Pepper("test-pepper"),
		Enabled:     true,
	}
	r.AccountService = &service.AccountService{
		Store:       st,
		Authz:       authz,
		Resolver:    resolver,
		Invitations: invitations,
		Audit:       audit,
	}
	r.InvitationService = invitations
	r.MembershipService = &service.MembershipService{Store: st, Authz: authz, Audit: audit}
	r.UserService = &service.UserService{
		Store:            st,
		Authz:            authz,
		Identity:         idp,
		Audit:            audit,
		ResetRedirectURL: "https://app.example.com/auth/reset-password",
	}
	if configure != nil {
		configure(r)
	}
	r.ApplyRoutes()

	return &testEnv{ctx: context.Background(), store: st, idp: idp, router: r}
}

func (e *testEnv) seedAccount(t *testing.T, name string) domain.Account {
	t.Helper()
	now := time.Now().UTC()
	a := domain.Account{
		ID:        idx.New().String(),
		Name:      name,
		Slug:      domain.Slugify(name),
		Status:    domain.AccountActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.store.Accounts().CreateAccount(e.ctx, a))
	return a
}

// seedUser creates a confirmed identity with a matching profile and returns
// a bearer token for it.
func (e *testEnv) seedUser(t *testing.T, email string, role domain.GlobalRole) (string, string) {
	t.Helper()
	id := e.idp.Seed(email, true)
	now := time.Now().UTC()
	require.NoError(t, e.store.Profiles().CreateProfile(e.ctx, domain.Profile{
		ID:         id.ID,
		Email:      id.Email,
		GlobalRole: role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))

	token, err := jwtx.SignHS256(testSecret, jwtx.NewClaims(id.ID, id.Email, "", nil, time.Hour, time.Now()))
	require.NoError(t, err)
	return id.ID, token
}

func (e *testEnv) seedMember(t *testing.T, accountID, userID string, role domain.Role) domain.Membership {
	t.Helper()
	now := time.Now().UTC()
	m := domain.Membership{
		ID:        idx.New().String(),
		AccountID: accountID,
		UserID:    userID,
		Role:      role,
		Status:    domain.MembershipActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.store.Memberships().CreateMembership(e.ctx, m))
	return m
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.doFrom(t, "", nil, method, path, token, body)
}

// doFrom sends a request from remote with extra headers.
func (e *testEnv) doFrom(t *testing.T, remote string, headers map[string]string, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if remote != "" {
		req.RemoteAddr = remote
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRegister(t *testing.T) {
	e := newTestEnv(t)

	req := onboardsdk.RegisterRequest{FullName: "Jane Citizen", CompanyName: "Acme Inc", Email: "jane@acme.test"}
	rec := e.do(t, http.MethodPost, "/v1/register", "", req)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	resp := decode[onboardsdk.RegisterResponse](t, rec)
	require.Equal(t, string(domain.CodeRegistrationSeeded), resp.Code)
	require.True(t, resp.EmailSent)
	require.Len(t, e.idp.Invites(), 1)

	// A replay looks the same from outside.
	rec = e.do(t, http.MethodPost, "/v1/register", "", req)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	require.Equal(t, resp, decode[onboardsdk.RegisterResponse](t, rec))
}

func TestRegisterLimitIgnoresForgedForwardedFor(t *testing.T) {
	e := newTestEnv(t)

	var codes []int
	for i := range 6 {
		rec := e.doFrom(t, "203.0.113.9:4000",
			map[string]string{"X-Forwarded-For": fmt.Sprintf("198.51.100.%d", i+1)},
			http.MethodPost, "/v1/register", "",
			onboardsdk.RegisterRequest{FullName: "Jane Citizen", CompanyName: "Acme Inc", Email: fmt.Sprintf("jane%d@acme.test", i)})
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			require.Equal(t, string(domain.CodeRateLimited), decode[onboardsdk.ErrorResponse](t, rec).Code)
		}
	}
	require.Equal(t, []int{202, 202, 202, 202, 202, 429}, codes)
}

func TestRegisterLimitHonoursTrustedProxy(t *testing.T) {
	proxies, err := httpx.ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)
	e := newTestEnvWith(t, func(r *Router) { r.Proxies = proxies })

	for i := range 6 {
		rec := e.doFrom(t, "10.0.0.5:4000",
			map[string]string{"X-Forwarded-For": fmt.Sprintf("198.51.100.%d", i+1)},
			http.MethodPost, "/v1/register", "",
			onboardsdk.RegisterRequest{FullName: "Jane Citizen", CompanyName: "Acme Inc", Email: fmt.Sprintf("jane%d@acme.test", i)})
		require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	}
}

func TestRegisterHoneypotLooksLikeSuccess(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/v1/register", "", onboardsdk.RegisterRequest{
		FullName: "Bot", CompanyName: "Spam Co", Email: "bot@spam.test", Website: "http://spam.test",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, string(domain.CodeRegistrationSeeded), decode[onboardsdk.RegisterResponse](t, rec).Code)
	require.Empty(t, e.idp.Invites())
}

func TestRegisterRejectsBadInput(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/v1/register", "", map[string]string{"email": "x@y.test", "surprise": "1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, string(domain.CodeValidationFailed), decode[onboardsdk.ErrorResponse](t, rec).Code)

	rec = e.do(t, http.MethodPost, "/v1/register", "", onboardsdk.RegisterRequest{FullName: "J", CompanyName: "A", Email: "nope"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, string(domain.CodeValidationFailed), decode[onboardsdk.ErrorResponse](t, rec).Code)
}

func TestSecuredRoutesRequireBearer(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/v1/accounts", "", onboardsdk.ProvisionAccountRequest{Name: "Acme"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, string(domain.CodeUnauthenticated), decode[onboardsdk.ErrorResponse](t, rec).Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")

	rec = e.do(t, http.MethodPost, "/v1/accounts", "not-a-jwt", onboardsdk.ProvisionAccountRequest{Name: "Acme"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInvitationLifecycle(t *testing.T) {
	e := newTestEnv(t)
	acct := e.seedAccount(t, "Acme")
	adminID, token := e.seedUser(t, "boss@acme.test", domain.GlobalRoleUser)
	e.seedMember(t, acct.ID, adminID, domain.RoleAdmin)

	path := "/v1/accounts/" + acct.ID + "/invitations"
	create := onboardsdk.CreateInvitationRequest{Email: "new@example.com", Role: onboardsdk.RoleViewer}

	rec := e.do(t, http.MethodPost, path, token, create)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[onboardsdk.InvitationResponse](t, rec)
	require.Equal(t, string(domain.CodeInviteCreated), first.Code)
	require.Equal(t, "PENDING", first.Invitation.Status)
	require.Equal(t, "admin_invite", first.Invitation.Source)
	require.True(t, first.EmailSent)

	entries, err := e.store.AuditLog().ListByResource(e.ctx, domain.ResourceInvitation, first.Invitation.ID)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	require.Equal(t, rec.Header().Get("X-Request-ID"), entries[0].Meta["request_id"])

	rec = e.do(t, http.MethodPost, path, token, create)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, string(domain.CodeInviteAlreadyPending), decode[onboardsdk.ErrorResponse](t, rec).Code)

	rec = e.do(t, http.MethodPost, "/v1/invitations/"+first.Invitation.ID+"/revoke", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "REVOKED", decode[onboardsdk.InvitationResponse](t, rec).Invitation.Status)

	rec = e.do(t, http.MethodPost, path, token, create)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	second := decode[onboardsdk.InvitationResponse](t, rec)
	require.NotEqual(t, first.Invitation.ID, second.Invitation.ID)

	rec = e.do(t, http.MethodPost, "/v1/invitations/"+second.Invitation.ID+"/resend", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resent := decode[onboardsdk.InvitationResponse](t, rec)
	require.Equal(t, second.Invitation.ID, resent.ReplacedID)
	require.Equal(t, second.Invitation.ID, resent.Invitation.ResentFrom)
}

func TestInvitationForbiddenForOutsider(t *testing.T) {
	e := newTestEnv(t)
	acct := e.seedAccount(t, "Acme")
	_, token := e.seedUser(t, "stranger@example.com", domain.GlobalRoleUser)

	rec := e.do(t, http.MethodPost, "/v1/accounts/"+acct.ID+"/invitations", token,
		onboardsdk.CreateInvitationRequest{Email: "new@example.com", Role: onboardsdk.RoleViewer})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, string(domain.CodeForbidden), decode[onboardsdk.ErrorResponse](t, rec).Code)
}

func TestProvisionAndSetStatus(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.seedUser(t, "ops@platform.test", domain.GlobalRolePlatformAdmin)

	rec := e.do(t, http.MethodPost, "/v1/accounts", token, onboardsdk.ProvisionAccountRequest{
		Name: "Acme Inc", AdminEmail: "boss@acme.test", Trial: true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	prov := decode[onboardsdk.ProvisionAccountResponse](t, rec)
	require.Equal(t, "acme-inc", prov.Account.Slug)
	require.Equal(t, "TRIAL_ACTIVE", prov.Account.TrialState)
	require.Equal(t, onboardsdk.RoleAdmin, prov.Invitation.Role)
	require.Equal(t, "platform_provisioning", prov.Invitation.Source)

	rec = e.do(t, http.MethodPatch, "/v1/accounts/"+prov.Account.ID+"/status", token,
		onboardsdk.SetAccountStatusRequest{Status: onboardsdk.AccountArchived})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	status := decode[onboardsdk.AccountStatusResponse](t, rec)
	require.Equal(t, onboardsdk.AccountActive, status.PreviousStatus)
	require.Equal(t, onboardsdk.AccountArchived, status.Account.Status)
	require.NotNil(t, status.Account.ArchivedAt)
}

func TestLastAdminOverHTTP(t *testing.T) {
	e := newTestEnv(t)
	acct := e.seedAccount(t, "Acme")
	adminID, adminToken := e.seedUser(t, "boss@acme.test", domain.GlobalRoleUser)
	m := e.seedMember(t, acct.ID, adminID, domain.RoleAdmin)
	_, opsToken := e.seedUser(t, "ops@platform.test", domain.GlobalRolePlatformAdmin)

	rec := e.do(t, http.MethodPatch, "/v1/memberships/"+m.ID, adminToken, onboardsdk.ChangeRoleRequest{Role: onboardsdk.RoleViewer})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, string(domain.CodeLastAccountAdminForbidden), decode[onboardsdk.ErrorResponse](t, rec).Code)

	rec = e.do(t, http.MethodDelete, "/v1/memberships/"+m.ID, opsToken, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(t, http.MethodDelete, "/v1/memberships/"+m.ID+"?override=true", opsToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[onboardsdk.MembershipResponse](t, rec)
	require.Equal(t, string(domain.CodeMembershipRemoved), resp.Code)
	require.True(t, resp.Overridden)
}

func TestUserRoutes(t *testing.T) {
	e := newTestEnv(t)
	userID, userToken := e.seedUser(t, "jane@acme.test", domain.GlobalRoleUser)
	_, opsToken := e.seedUser(t, "ops@platform.test", domain.GlobalRolePlatformAdmin)

	rec := e.do(t, http.MethodPost, "/v1/users/password-reset", userToken, onboardsdk.PasswordResetRequest{Email: "jane@acme.test"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	require.Len(t, e.idp.Resets(), 1)

	rec = e.do(t, http.MethodPatch, "/v1/users/"+userID+"/credentials", userToken, onboardsdk.UpdateCredentialsRequest{Password: "short"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPatch, "/v1/users/"+userID+"/credentials", userToken, onboardsdk.UpdateCredentialsRequest{Password: "correct horse battery"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, e.idp.VerifyPassword(userID, "correct horse battery"))

	rec = e.do(t, http.MethodDelete, "/v1/users/"+userID, userToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodDelete, "/v1/users/"+userID, opsToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, string(domain.CodeUserDeleted), decode[onboardsdk.UserResponse](t, rec).Code)

	rec = e.do(t, http.MethodDelete, "/v1/users/"+userID, opsToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", decode[onboardsdk.HealthResponse](t, rec).Version)

	rec = e.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[onboardsdk.HealthResponse](t, rec).Checks.Database)

	require.NoError(t, e.store.Close())
	rec = e.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "degraded", decode[onboardsdk.HealthResponse](t, rec).Status)
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		kind   service.Kind
		status int
	}{
		{service.KindValidation, http.StatusBadRequest},
		{service.KindAuthorization, http.StatusForbidden},
		{service.KindNotFound, http.StatusNotFound},
		{service.KindConflict, http.StatusConflict},
		{service.KindRateLimited, http.StatusTooManyRequests},
		{service.KindTransient, http.StatusBadGateway},
		{service.KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			err := (&service.Error{Kind: tc.kind, Code: "SOME_CODE", Message: "m"}).With("account_id", "a1")
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), err)

			require.Equal(t, tc.status, rec.Code)
			body := decode[map[string]any](t, rec)
			require.Equal(t, "SOME_CODE", body["code"])
			require.Equal(t, "a1", body["account_id"])
		})
	}

	t.Run("plain error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode[map[string]any](t, rec)
		require.Equal(t, string(domain.CodeInternal), body["code"])
		require.NotContains(t, rec.Body.String(), "boom")
	})
}

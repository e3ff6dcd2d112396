package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/onboard/pkg/httpx"
	"github.com/aussiebroadwan/onboard/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var secret = []byte("super-secret-jwt-token-with-at-least-32-characters")

func TestAuthnMiddleware(t *testing.T) {
	v := jwtx.NewHS256Verifier(secret, "", nil)

	var gotID, gotEmail string
	h := httpx.AuthnMiddleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = httpx.UserIDFromContext(r.Context())
		gotEmail = httpx.EmailFromContext(r.Context())
	}))

	token, err := jwtx.SignHS256(secret, jwtx.NewClaims("user-1", "jane@acme.test", "", nil, time.Hour, time.Now()))
	require.NoError(t, err)

	t.Run("valid, scheme case-insensitive", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-1", gotID)
		require.Equal(t, "jane@acme.test", gotEmail)
	})

	for name, header := range map[string]string{
		"missing":      "",
		"basic":        "Basic dXNlcjpwYXNz",
		"empty bearer": "Bearer ",
		"garbage":      "Bearer not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)
			require.Contains(t, rec.Body.String(), `"code":"UNAUTHENTICATED"`)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Email string `json:"email"`
	}

	var b body
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.test"}`))
	require.NoError(t, httpx.DecodeJSON(req, &b))
	require.Equal(t, "a@b.test", b.Email)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.test","extra":1}`))
	require.Error(t, httpx.DecodeJSON(req, &b))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.test"}{"email":"c@d.test"}`))
	require.Error(t, httpx.DecodeJSON(req, &b))
}

//go:build e2e

package onboard_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/onboard/pkg/onboardsdk"
	"github.com/stretchr/testify/require"
)

func TestSelfServiceSignup(t *testing.T) {
	baseURL, cleanup := setupContainer(t, nil)
	defer cleanup()

	client := onboardsdk.NewClient(baseURL)

	for _, email := range []string{"jane@acme.test", "john@acme.test"} {
		resp, err := client.Register(t.Context(), onboardsdk.RegisterRequest{
			FullName: "Acme Person", CompanyName: "Acme Inc", Email: email,
		})
		require.NoError(t, err)
		require.Equal(t, "REGISTRATION_SEEDED", resp.Code)
		require.True(t, resp.EmailSent)
	}

	_, err := client.Register(t.Context(), onboardsdk.RegisterRequest{FullName: "A", CompanyName: "Acme", Email: "bad"})
	requireAPIError(t, err, http.StatusBadRequest, "VALIDATION_FAILED")
}

func TestSignupRateLimitPerEmail(t *testing.T) {
	baseURL, cleanup := setupContainer(t, nil)
	defer cleanup()

	client := onboardsdk.NewClient(baseURL)
	req := onboardsdk.RegisterRequest{FullName: "Jane Citizen", CompanyName: "Acme Inc", Email: "jane@acme.test"}

	// The first call seeds, the next two replay the pending invitation.
	for range 3 {
		_, err := client.Register(t.Context(), req)
		require.NoError(t, err)
	}

	_, err := client.Register(t.Context(), req)
	requireAPIError(t, err, http.StatusTooManyRequests, "RATE_LIMITED")
}

func TestSignupDisabled(t *testing.T) {
	baseURL, cleanup := setupContainer(t, map[string]string{"ONBOARD_SELF_SERVICE_ENABLED": "false"})
	defer cleanup()

	_, err := onboardsdk.NewClient(baseURL).Register(t.Context(), onboardsdk.RegisterRequest{
		FullName: "Jane Citizen", CompanyName: "Acme Inc", Email: "jane@acme.test",
	})
	requireAPIError(t, err, http.StatusForbidden, "REGISTRATION_DISABLED")
}

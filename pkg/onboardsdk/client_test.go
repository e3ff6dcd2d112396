package onboardsdk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/onboard/pkg/onboardsdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvitationSendsBearerAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/accounts/acct-1/invitations", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req onboardsdk.CreateInvitationRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "new@example.com", req.Email)
		assert.Equal(t, onboardsdk.RoleViewer, req.Role)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(onboardsdk.InvitationResponse{
			Code:       "INVITE_CREATED",
			Invitation: onboardsdk.Invitation{ID: "inv-1", Status: "PENDING"},
			EmailSent:  true,
			Attempts:   1,
		})
	}))
	t.Cleanup(srv.Close)

	c := onboardsdk.NewClient(srv.URL + "/").WithToken("tok")
	res, err := c.CreateInvitation(context.Background(), "acct-1", onboardsdk.CreateInvitationRequest{
		Email: "new@example.com",
		Role:  onboardsdk.RoleViewer,
	})
	require.NoError(t, err)
	require.Equal(t, "inv-1", res.Invitation.ID)
	require.True(t, res.EmailSent)
}

func TestErrorsCarryCodeAndDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"INVITE_ALREADY_PENDING","message":"already","invitation_id":"inv-1"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := onboardsdk.NewClient(srv.URL).CreateInvitation(context.Background(), "acct-1", onboardsdk.CreateInvitationRequest{})
	require.Error(t, err)
	require.True(t, onboardsdk.IsCode(err, "INVITE_ALREADY_PENDING"))

	var apiErr *onboardsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
	require.Equal(t, "already", apiErr.Message)
	require.Equal(t, "inv-1", apiErr.Details["invitation_id"])
}

func TestNonJSONErrorFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := onboardsdk.NewClient(srv.URL).GetLiveness(context.Background())
	require.True(t, onboardsdk.IsCode(err, "HTTP_502"))
}

func TestOverrideIsSentAsQuery(t *testing.T) {
	gotQuery := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/memberships/m-1", r.URL.Path)
		gotQuery <- r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"MEMBERSHIP_REMOVED","message":"ok","overridden":true}`))
	}))
	t.Cleanup(srv.Close)

	res, err := onboardsdk.NewClient(srv.URL).WithToken("tok").RemoveMembership(context.Background(), "m-1", true)
	require.NoError(t, err)
	require.True(t, res.Overridden)
	require.Equal(t, "override=true", <-gotQuery)
}

func TestWithTokenDoesNotMutateParent(t *testing.T) {
	base := onboardsdk.NewClient("http://example.test")
	authed := base.WithToken("tok")
	require.Empty(t, base.Token)
	require.Equal(t, "tok", authed.Token)
	require.Same(t, base.HTTPClient, authed.HTTPClient)
}

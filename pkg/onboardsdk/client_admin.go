package onboardsdk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ProvisionAccount(ctx context.Context, req ProvisionAccountRequest) (*ProvisionAccountResponse, error) {
	var out ProvisionAccountResponse
	if err := c.do(ctx, http.MethodPost, "/v1/accounts", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetAccountStatus(ctx context.Context, accountID, status string) (*AccountStatusResponse, error) {
	var out AccountStatusResponse
	path := "/v1/accounts/" + url.PathEscape(accountID) + "/status"
	if err := c.do(ctx, http.MethodPatch, path, SetAccountStatusRequest{Status: status}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateInvitation(ctx context.Context, accountID string, req CreateInvitationRequest) (*InvitationResponse, error) {
	var out InvitationResponse
	path := "/v1/accounts/" + url.PathEscape(accountID) + "/invitations"
	if err := c.do(ctx, http.MethodPost, path, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RevokeInvitation(ctx context.Context, invitationID string) (*InvitationResponse, error) {
	var out InvitationResponse
	path := "/v1/invitations/" + url.PathEscape(invitationID) + "/revoke"
	if err := c.do(ctx, http.MethodPost, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResendInvitation(ctx context.Context, invitationID string) (*InvitationResponse, error) {
	var out InvitationResponse
	path := "/v1/invitations/" + url.PathEscape(invitationID) + "/resend"
	if err := c.do(ctx, http.MethodPost, path, nil, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChangeRole(ctx context.Context, membershipID string, req ChangeRoleRequest) (*MembershipResponse, error) {
	var out MembershipResponse
	path := "/v1/memberships/" + url.PathEscape(membershipID)
	if err := c.do(ctx, http.MethodPatch, path, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveMembership(ctx context.Context, membershipID string, override bool) (*MembershipResponse, error) {
	var out MembershipResponse
	path := "/v1/memberships/" + url.PathEscape(membershipID) + overrideQuery(override)
	if err := c.do(ctx, http.MethodDelete, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID string, override bool) (*UserResponse, error) {
	var out UserResponse
	path := "/v1/users/" + url.PathEscape(userID) + overrideQuery(override)
	if err := c.do(ctx, http.MethodDelete, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResetPassword(ctx context.Context, email string) (*UserResponse, error) {
	var out UserResponse
	if err := c.do(ctx, http.MethodPost, "/v1/users/password-reset", PasswordResetRequest{Email: email}, &out, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCredentials(ctx context.Context, userID string, req UpdateCredentialsRequest) (*UserResponse, error) {
	var out UserResponse
	path := "/v1/users/" + url.PathEscape(userID) + "/credentials"
	if err := c.do(ctx, http.MethodPatch, path, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func overrideQuery(override bool) string {
	if override {
		return "?override=true"
	}
	return ""
}

// Package gotrue talks to a GoTrue-compatible identity provider through its
// admin API, authenticated with the service role key.
package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/identity"
)

type Client struct {
	BaseURL    string
	ServiceKey string
	HTTPClient *http.Client
}

var _ identity.Gateway = (*Client)(nil)

func New(baseURL, serviceKey string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// APIError is a non-2xx response. Message is the provider's own wording so
// callers can inspect it, see identity.IsAlreadyRegistered.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gotrue: %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return identity.ErrNotFound
	}
	return nil
}

type userJSON struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (u userJSON) identity() domain.Identity {
	return domain.Identity{
		ID:               u.ID,
		Email:            u.Email,
		EmailConfirmedAt: u.EmailConfirmedAt,
		CreatedAt:        u.CreatedAt,
	}
}

func (c *Client) ListIdentities(ctx context.Context, page, perPage int) ([]domain.Identity, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var out struct {
		Users []userJSON `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/users?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}

	ids := make([]domain.Identity, 0, len(out.Users))
	for _, u := range out.Users {
		ids = append(ids, u.identity())
	}
	return ids, nil
}

func (c *Client) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	var u userJSON
	if err := c.do(ctx, http.MethodGet, "/admin/users/"+url.PathEscape(id), nil, &u); err != nil {
		return domain.Identity{}, err
	}
	return u.identity(), nil
}

func (c *Client) DeleteIdentity(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) SendInvite(ctx context.Context, email, redirectURL string, data map[string]any) error {
	body := map[string]any{"email": email}
	if len(data) > 0 {
		body["data"] = data
	}
	return c.do(ctx, http.MethodPost, "/invite"+redirectQuery(redirectURL), body, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email, redirectURL string) error {
	return c.do(ctx, http.MethodPost, "/recover"+redirectQuery(redirectURL), map[string]any{"email": email}, nil)
}

func (c *Client) UpdateCredentials(ctx context.Context, id string, cr identity.Credentials) error {
	body := map[string]any{}
	if cr.Email != "" {
		body["email"] = cr.Email
		// An admin change skips the confirmation round trip.
		body["email_confirm"] = true
	}
	if cr.Password != "" {
		body["password"] = cr.Password
	}
	return c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id), body, nil)
}

func redirectQuery(redirectURL string) string {
	if redirectURL == "" {
		return ""
	}
	return "?redirect_to=" + url.QueryEscape(redirectURL)
}

// do sends an admin request and decodes a 2xx body into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("gotrue: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("gotrue: create request: %w", err)
	}
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("gotrue: send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("gotrue: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("gotrue: decode response: %w", err)
	}
	return nil
}

// parseError picks the first populated message field. GoTrue versions
// disagree on which one they use.
func parseError(status int, raw []byte) error {
	var body struct {
		Code             any    `json:"code"`
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(raw, &body)

	e := &APIError{StatusCode: status, Code: body.ErrorCode}
	for _, m := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
		if m != "" {
			e.Message = m
			break
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(raw))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

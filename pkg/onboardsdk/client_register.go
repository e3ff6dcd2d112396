package onboardsdk

import (
	"context"
	"net/http"
)

// Register starts a self-service trial. A successful response does not
// reveal whether anything was created.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/v1/register", req, &out, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &out, nil
}

package backend

import (
	"context"

	"github.com/andescare/portal/internal/session"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Role     session.Role `json:"role"`
}

// LoginResult is the authentication endpoint's answer. User decodes through
// the canonical session.User, so the patient identifier is already coalesced
// when the result leaves this package.
type LoginResult struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

// AuthClient calls the /auth resource.
type AuthClient struct {
	c *Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

// Login exchanges credentials for a token and the authenticated user.
// Status mapping (401 → fixed message, timeout → status 0) is the session
// service's concern, not this client's.
func (ac *AuthClient) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var res LoginResult
	if err := ac.c.post(ctx, "/auth/login", creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

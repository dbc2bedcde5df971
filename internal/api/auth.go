package api

import (
	"context"
	"fmt"

	"cems-client/internal/model"
)

// LoginInput is the credential pair submitted to POST /login. The
// identifier is an email or student ID.
type LoginInput struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginResponse is the backend's answer to a successful login.
type LoginResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    model.User `json:"user"`
}

// Login exchanges credentials for a bearer token and the user profile.
// It works without a stored session; the client used for login may be
// constructed with a nil session.
func (c *Client) Login(ctx context.Context, in LoginInput) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Post(ctx, "/login", in, &resp); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return &resp, nil
}

// User fetches a user profile by ID.
func (c *Client) User(ctx context.Context, id int) (*model.User, error) {
	var envelope struct {
		Data model.User `json:"data"`
	}
	if err := c.Get(ctx, fmt.Sprintf("/users/%d", id), &envelope); err != nil {
		return nil, fmt.Errorf("fetching user %d: %w", id, err)
	}
	return &envelope.Data, nil
}

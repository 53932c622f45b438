package api

import (
	"context"
	"net/http"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserPayload is the identity record returned by the auth endpoints.
type UserPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SessionResponse is the success payload of login and register.
type SessionResponse struct {
	Token string      `json:"token"`
	User  UserPayload `json:"user"`
}

// RefreshResponse is the success payload of a token refresh.
type RefreshResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a session
func (c *Client) Login(ctx context.Context, email, password string) (*SessionResponse, error) {
	var resp SessionResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns a session
func (c *Client) Register(ctx context.Context, name, email, password, role string) (*SessionResponse, error) {
	var resp SessionResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh rotates the token using the current session
func (c *Client) Refresh(ctx context.Context) (*RefreshResponse, error) {
	var resp RefreshResponse
	err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

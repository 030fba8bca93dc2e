package api

import (
	"context"
	"net/http"

	"github.com/me/fintrade/pkg/model"
)

// AuthAPI wraps /auth.
type AuthAPI struct{ c *Client }

// SignIn exchanges credentials for a bearer token.
func (a *AuthAPI) SignIn(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	err := a.c.do(ctx, call{
		method:    http.MethodPost,
		path:      "/auth/signin",
		body:      req,
		out:       &resp,
		anonymous: true,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignUp registers a new account. The backend answers with a message.
func (a *AuthAPI) SignUp(ctx context.Context, req model.RegisterRequest) (*model.MessageResponse, error) {
	var resp model.MessageResponse
	err := a.c.do(ctx, call{
		method:    http.MethodPost,
		path:      "/auth/signup",
		body:      req,
		out:       &resp,
		anonymous: true,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

package api

import (
	"context"
	"net/http"

	"github.com/me/fintrade/pkg/model"
)

// AdminAPI wraps /admin/users. The backend rejects non-admin tokens.
type AdminAPI struct{ c *Client }

// ListUsers returns every account.
func (a *AdminAPI) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := a.c.do(ctx, call{method: http.MethodGet, path: "/admin/users", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser returns one account.
func (a *AdminAPI) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var out model.User
	if err := a.c.do(ctx, call{method: http.MethodGet, path: idPath("/admin/users/%d", id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser replaces an account's editable fields.
func (a *AdminAPI) UpdateUser(ctx context.Context, id int64, u model.User) (*model.User, error) {
	var out model.User
	if err := a.c.do(ctx, call{method: http.MethodPut, path: idPath("/admin/users/%d", id), body: u, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account.
func (a *AdminAPI) DeleteUser(ctx context.Context, id int64) error {
	return a.c.do(ctx, call{method: http.MethodDelete, path: idPath("/admin/users/%d", id)})
}

// ToggleUserStatus enables a disabled account or disables an enabled one.
func (a *AdminAPI) ToggleUserStatus(ctx context.Context, id int64) (*model.User, error) {
	var out model.User
	err := a.c.do(ctx, call{
		method: http.MethodPut,
		path:   idPath("/admin/users/%d/toggle-status", id),
		body:   struct{}{},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

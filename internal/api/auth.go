package api

import (
	"context"
	"net/http"
)

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var out LoginResult
	if err := c.Request(ctx, http.MethodPost, "/auth/login", Credentials{Username: username, Password: password}, &out); err != nil {
		return nil, err
	}
	if out.Username == "" {
		out.Username = username
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.Request(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// CheckAuth consulta la sesión actual. El backend responde 401 cuando no hay
// sesión, así que un error aquí equivale a "no autenticado".
func (c *Client) CheckAuth(ctx context.Context) (*AuthStatus, error) {
	var out AuthStatus
	if err := c.Request(ctx, http.MethodGet, "/auth/check", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) (*MessageResult, error) {
	var out MessageResult
	body := PasswordChange{OldPassword: oldPassword, NewPassword: newPassword}
	if err := c.Request(ctx, http.MethodPost, "/auth/change-password", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

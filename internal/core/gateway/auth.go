package gateway

import (
	"context"
	"net/http"

	"github.com/Nzyazin/ledgerconsole/internal/core/models"
)

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	return c.auth(ctx, "/auth/login", req)
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return c.auth(ctx, "/auth/register", req)
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	return c.auth(ctx, "/auth/refresh", models.RefreshRequest{RefreshToken: refreshToken})
}

func (c *Client) auth(ctx context.Context, path string, in interface{}) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.send(ctx, http.MethodPost, path, nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

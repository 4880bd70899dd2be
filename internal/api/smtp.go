package api

import (
	"context"
	"net/http"
)

func (c *Client) GetSMTPConfig(ctx context.Context) (*SMTPConfig, error) {
	var out SMTPConfig
	if err := c.Request(ctx, http.MethodGet, "/config/smtp", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSMTPConfig(ctx context.Context, cfg SMTPConfig) (*MessageResult, error) {
	var out MessageResult
	if err := c.Request(ctx, http.MethodPost, "/config/smtp", cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TestSMTP pide al backend probar la conexión. Un fallo de conexión llega
// como *Error (400) con el mensaje del backend.
func (c *Client) TestSMTP(ctx context.Context) (*SMTPTestResult, error) {
	var out SMTPTestResult
	if err := c.Request(ctx, http.MethodPost, "/config/smtp/test", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

package api

import (
	"context"
	"net/http"
)

// nonNil: el backend espera listas, nunca null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// SendEmail envía un mensaje directo. Un envío fallido del lado SMTP vuelve
// como *Error con el mensaje del backend.
func (c *Client) SendEmail(ctx context.Context, msg Message) (*SendResult, error) {
	msg.Recipients = nonNil(msg.Recipients)
	msg.CC = nonNil(msg.CC)
	msg.BCC = nonNil(msg.BCC)

	var out SendResult
	if err := c.Request(ctx, http.MethodPost, "/sender/send", msg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendFromTemplate(ctx context.Context, msg TemplateMessage) (*SendResult, error) {
	msg.Recipients = nonNil(msg.Recipients)
	msg.CC = nonNil(msg.CC)
	msg.BCC = nonNil(msg.BCC)
	if msg.Variables == nil {
		msg.Variables = map[string]string{}
	}

	var out SendResult
	if err := c.Request(ctx, http.MethodPost, "/sender/send-from-template", msg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

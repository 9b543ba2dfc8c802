package backend

import (
	"context"
	"net/http"
)

// Mail is an outbound email request handed to the backend dispatcher.
type Mail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// MailClient calls the /email dispatch resource.
type MailClient struct {
	c *Client
}

func NewMailClient(c *Client) *MailClient {
	return &MailClient{c: c}
}

// Send asks the backend to deliver the email. There is no retry; callers
// that cannot afford failure must detach the call.
func (mc *MailClient) Send(ctx context.Context, m *Mail) error {
	if m.To == "" {
		return &Error{Status: http.StatusUnprocessableEntity, Message: "destinatario es obligatorio"}
	}
	return mc.c.post(ctx, "/email/send", m, nil)
}

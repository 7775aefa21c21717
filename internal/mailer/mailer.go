// Package mailer delivers transactional e-mail through an HTTP API and hosts
// the outbox event processor that turns recovery events into reset messages.
package mailer

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "github.com/voltpass/volt/internal/errors"
)

// Mailer defines outgoing e-mail operations.
type Mailer interface {
	// SendPasswordReset sends the password reset message containing resetLink.
	SendPasswordReset(ctx context.Context, to string, name string, resetLink string) error
}

// Config holds mailer configuration.
type Config struct {
	APIURL      string
	APIKey      string
	FromAddress string
	// ResetURL is the page the reset link points at; the recovery token is
	// appended as a query parameter.
	ResetURL string
}

// restyMailer sends mail through a Resend-compatible HTTP API.
type restyMailer struct {
	client *resty.Client
	config Config
}

// NewMailer creates a Mailer backed by the configured HTTP API.
func NewMailer(config Config) Mailer {
	client := resty.New().
		SetBaseURL(config.APIURL).
		SetTimeout(15 * time.Second).
		SetAuthToken(config.APIKey)

	return &restyMailer{client: client, config: config}
}

// sendRequest is the wire format of the e-mail API.
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendPasswordReset sends the password reset message.
func (m *restyMailer) SendPasswordReset(ctx context.Context, to string, name string, resetLink string) error {
	body := sendRequest{
		From:    m.config.FromAddress,
		To:      []string{to},
		Subject: "Reset your Volt password",
		HTML:    resetMessageHTML(name, resetLink),
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/emails")
	if err != nil {
		return apperrors.Wrap(err, "failed to send password reset email")
	}
	if resp.IsError() {
		return apperrors.Wrap(
			fmt.Errorf("email api returned status %d", resp.StatusCode()),
			"failed to send password reset email",
		)
	}

	return nil
}

// ResetLink builds the reset page URL carrying the plain recovery token.
func ResetLink(resetURL string, plainToken string) string {
	return fmt.Sprintf("%s?token=%s", resetURL, url.QueryEscape(plainToken))
}

func resetMessageHTML(name string, resetLink string) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p>
<p>We received a request to reset your Volt password. Follow the link below to choose a new one. The link is valid for a single use and expires shortly.</p>
<p><a href="%s">Reset your password</a></p>
<p>If you didn't request this, you can safely ignore this message.</p>`,
		name, resetLink,
	)
}

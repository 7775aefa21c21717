package mailer

import (
	"context"
	"encoding/json"
	"log/slog"

	apperrors "github.com/voltpass/volt/internal/errors"
	outboxDomain "github.com/voltpass/volt/internal/outbox/domain"
)

// RecoveryRequestedPayload is the outbox payload written when a password
// recovery is requested.
type RecoveryRequestedPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// EventProcessor dispatches outbox events to the mailer. Recovery events send
// the reset e-mail; other event types are logged and acknowledged so they
// don't wedge the queue.
type EventProcessor struct {
	mailer   Mailer
	resetURL string
	logger   *slog.Logger
}

// NewEventProcessor creates an EventProcessor.
func NewEventProcessor(mailer Mailer, resetURL string, logger *slog.Logger) *EventProcessor {
	return &EventProcessor{
		mailer:   mailer,
		resetURL: resetURL,
		logger:   logger,
	}
}

// Process handles a single outbox event.
func (p *EventProcessor) Process(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	switch event.EventType {
	case outboxDomain.EventTypeRecoveryRequested:
		return p.processRecoveryRequested(ctx, event)
	case outboxDomain.EventTypeUserRegistered:
		if p.logger != nil {
			p.logger.Info("user registered", slog.String("event_id", event.ID.String()))
		}
		return nil
	default:
		if p.logger != nil {
			p.logger.Warn("unknown event type", slog.String("event_type", event.EventType))
		}
		return nil
	}
}

func (p *EventProcessor) processRecoveryRequested(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	var payload RecoveryRequestedPayload
	if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal recovery event payload")
	}

	resetLink := ResetLink(p.resetURL, payload.Token)
	return p.mailer.SendPasswordReset(ctx, payload.Email, payload.Name, resetLink)
}

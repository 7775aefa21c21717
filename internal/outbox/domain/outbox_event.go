// Package domain defines the transactional outbox event model. Side effects
// such as recovery e-mails are recorded as events in the same transaction as
// the state change that triggers them, then delivered by a background worker.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEventStatus represents the status of an outbox event
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusProcessed OutboxEventStatus = "processed"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// Event types emitted by the account module.
const (
	// EventTypeUserRegistered is recorded when a new account is created.
	EventTypeUserRegistered = "user.registered"
	// EventTypeRecoveryRequested is recorded when a password recovery is
	// requested; its delivery sends the reset e-mail.
	EventTypeRecoveryRequested = "recovery.requested"
)

// OutboxEvent represents an event in the transactional outbox pattern
type OutboxEvent struct {
	ID          uuid.UUID
	EventType   string
	Payload     string
	Status      OutboxEventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

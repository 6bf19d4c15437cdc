// Package events publishes activity messages to the message bus.
// Publishing is fire-and-forget: failures are logged and never fail
// the request that triggered them.
package events

import (
	"context"
	"time"
)

// Subject constants for the cinelog message bus.
// Follow the pattern: cinelog.{resource}.{event}
const (
	SubjectAccountsRegistered = "cinelog.accounts.registered" // New account created
	SubjectSessionsLogin      = "cinelog.sessions.login"      // Credentials accepted, pair issued
	SubjectSessionsRefreshed  = "cinelog.sessions.refreshed"  // Refresh token rotated
	SubjectSessionsRevoked    = "cinelog.sessions.revoked"    // Logout cleared one or all tokens
	SubjectReviewsCreated     = "cinelog.reviews.created"     // Review posted
	SubjectReviewsDeleted     = "cinelog.reviews.deleted"     // Review removed
)

// Publisher sends one JSON-encoded payload per call. Implementations
// must not block the caller on transport failures.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any)
}

type AccountEvent struct {
	AccountID string    `json:"account_id"`
	Username  string    `json:"username"`
	At        time.Time `json:"at"`
}

type SessionEvent struct {
	AccountID string    `json:"account_id"`
	At        time.Time `json:"at"`
}

type ReviewEvent struct {
	ReviewID  string    `json:"review_id"`
	AccountID string    `json:"account_id"`
	TitleID   string    `json:"title_id"`
	At        time.Time `json:"at"`
}

// NoopPublisher drops every event. Used when events are disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, subject string, payload any) {}

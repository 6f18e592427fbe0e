// Package notify emails the back office about new submissions through the
// Resend HTTP API.
package notify

import (
	"context"
	"errors"
)

// Kind selects the template and recipient of a notification.
type Kind string

const (
	KindContact        Kind = "contact-inquiry"
	KindContactPage    Kind = "contact-page-inquiry"
	KindJobApplication Kind = "job-application"
)

var (
	ErrNoReplyTo     = errors.New("notify: submission has no reply-to email")
	ErrNotConfigured = errors.New("notify: email provider API key is not set")
	ErrUnknownKind   = errors.New("notify: unknown notification kind")
)

// Result reports the outcome of one delivery attempt.
type Result struct {
	Delivered bool
	MessageID string
	Err       error
}

// Notifier is called by the submission workflow after a record is saved.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, fields map[string]string) Result
}

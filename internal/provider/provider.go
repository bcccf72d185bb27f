// Package provider defines the interfaces for email delivery backends.
package provider

import (
	"context"

	"github.com/shemeka/bulkmailer/internal/email"
)

// Provider is the interface that email delivery backends must implement.
// Each provider handles the actual submission of built messages to the
// target service (SMTP relay, AWS SES, stdout dry-run).
type Provider interface {
	// Send delivers one message through this provider.
	// It returns an error if the delivery fails.
	Send(ctx context.Context, msg *email.Email) error

	// Name returns the human-readable name of this provider.
	Name() string
}

// Transport is implemented by providers that hold one long-lived session
// reused across all sends of a run. The delivery loop opens the session
// once before the first send and closes it exactly once afterwards,
// including after a failed Open.
type Transport interface {
	// Open establishes the session: connect, upgrade to TLS, authenticate.
	Open(ctx context.Context) error

	// Close terminates the session. Safe to call after a failed Open.
	Close() error
}

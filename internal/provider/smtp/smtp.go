// Package smtp implements a Provider that submits messages over one
// authenticated SMTP relay session, reused across all recipients of a run.
package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"

	"github.com/shemeka/bulkmailer/internal/email"
)

// Session states. The session moves strictly forward:
// Idle -> Connected -> Authenticated -> (Sending)* -> Closed.
const (
	stateIdle = iota
	stateConnected
	stateAuthenticated
	stateClosed
)

// Config holds relay connection parameters for the SMTP provider.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	// StartTLS upgrades the plaintext connection before authenticating.
	// Disabled only for local test relays.
	StartTLS bool

	// TLSConfig is used for the STARTTLS upgrade. Nil means a default
	// config verifying against the system roots.
	TLSConfig *tls.Config
}

// Client is a session-oriented SMTP delivery provider. It is used strictly
// sequentially: Open once, Send per recipient, Close once.
type Client struct {
	cfg   Config
	cli   *smtp.Client
	state int
}

// New creates an SMTP Client for the given relay. No connection is made
// until Open.
func New(cfg Config) *Client {
	return &Client{cfg: cfg, state: stateIdle}
}

// Open connects to the relay, upgrades to TLS, and authenticates. Any
// failure closes the underlying connection before returning, so a
// post-connect auth failure never leaks the session.
func (c *Client) Open(ctx context.Context) error {
	if c.state != stateIdle {
		return fmt.Errorf("session already opened")
	}

	addr := net.JoinHostPort(c.cfg.Host, fmt.Sprintf("%d", c.cfg.Port))

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		c.state = stateClosed
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	cli, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		conn.Close()
		c.state = stateClosed
		return fmt.Errorf("failed to greet %s: %w", addr, err)
	}
	c.cli = cli
	c.state = stateConnected

	if c.cfg.StartTLS {
		if ok, _ := cli.Extension("STARTTLS"); !ok {
			c.closeNow()
			return fmt.Errorf("relay %s does not offer STARTTLS", addr)
		}
		tlsConfig := c.cfg.TLSConfig
		if tlsConfig == nil {
			tlsConfig = &tls.Config{ServerName: c.cfg.Host, MinVersion: tls.VersionTLS12}
		}
		if err := cli.StartTLS(tlsConfig); err != nil {
			c.closeNow()
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if c.cfg.Username != "" {
		auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
		if err := cli.Auth(auth); err != nil {
			c.closeNow()
			return fmt.Errorf("failed to authenticate as %s: %w", c.cfg.Username, err)
		}
	}

	c.state = stateAuthenticated
	return nil
}

// Send submits one message over the open session. A failed submission
// resets the transaction so the session stays usable for the next
// recipient.
func (c *Client) Send(ctx context.Context, msg *email.Email) error {
	if c.state != stateAuthenticated {
		return fmt.Errorf("session is not open")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	raw, err := email.Encode(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	if err := c.submit(msg, raw); err != nil {
		// Clear the aborted transaction; a RSET failure means the session
		// itself is gone and later sends will fail on their own.
		_ = c.cli.Reset()
		return err
	}
	return nil
}

// submit runs one MAIL/RCPT/DATA transaction.
func (c *Client) submit(msg *email.Email, raw []byte) error {
	if err := c.cli.Mail(msg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range msg.To {
		if err := c.cli.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := c.cli.Data()
	if err != nil {
		return fmt.Errorf("failed to open data stream: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}
	return nil
}

// Close terminates the session with QUIT, falling back to a hard close.
// Safe to call more than once and after a failed Open.
func (c *Client) Close() error {
	if c.state == stateClosed || c.cli == nil {
		c.state = stateClosed
		return nil
	}
	defer func() { c.state = stateClosed }()

	if err := c.cli.Quit(); err != nil {
		return c.cli.Close()
	}
	return nil
}

// closeNow hard-closes the connection during a failed Open.
func (c *Client) closeNow() {
	if c.cli != nil {
		_ = c.cli.Close()
	}
	c.state = stateClosed
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "smtp"
}

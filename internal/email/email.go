// Package email defines the outbound message model, the per-recipient
// message builder, and the raw MIME encoder used by the delivery providers.
package email

// Email represents one outbound message, built fresh per recipient and
// discarded after submission.
type Email struct {
	From        string
	FromName    string
	To          []string
	Subject     string
	TextBody    string
	HtmlBody    string
	Attachments []Attachment
	MessageID   string
}

// Attachment represents a file attached to an email message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

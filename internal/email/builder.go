package email

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// textFallback is the plain-text alternative included with every HTML
// message for clients that do not render HTML.
const textFallback = "Hello,\n\n" +
	"This email was sent in HTML format. " +
	"Please view it in an email client that supports HTML.\n\n" +
	"— Shemeka Industries"

// Build constructs one message for a single recipient. The HTML body is
// paired with a plain-text fallback, and any preloaded attachments are
// carried as-is. A fresh Message-ID is generated per call.
func Build(from, fromName, to, subject, htmlBody string, attachments ...Attachment) *Email {
	return &Email{
		From:        from,
		FromName:    fromName,
		To:          []string{to},
		Subject:     subject,
		TextBody:    textFallback,
		HtmlBody:    htmlBody,
		Attachments: attachments,
		MessageID:   newMessageID(from),
	}
}

// LoadAttachment reads the file at path into an Attachment. The content
// type is guessed from the file extension, falling back to
// application/octet-stream, and the attachment is named after the file.
// A missing file returns an error wrapping fs.ErrNotExist so callers can
// abort before any network activity.
func LoadAttachment(path string) (Attachment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("failed to read attachment: %w", err)
	}

	ctype := mime.TypeByExtension(filepath.Ext(path))
	if ctype == "" {
		ctype = "application/octet-stream"
	}

	return Attachment{
		Filename:    filepath.Base(path),
		ContentType: ctype,
		Content:     content,
	}, nil
}

// newMessageID generates an RFC 5322 Message-ID using the sender's domain
// when one can be extracted.
func newMessageID(from string) string {
	domain := "localhost"
	if i := strings.LastIndex(from, "@"); i >= 0 && i+1 < len(from) {
		domain = from[i+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

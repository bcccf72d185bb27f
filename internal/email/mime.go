package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"time"
)

// Encode serializes the message into a raw RFC 5322 byte stream:
// a multipart/mixed container holding a multipart/alternative pair
// (plain-text fallback plus HTML) and one base64 part per attachment.
func Encode(msg *Email) ([]byte, error) {
	var buf bytes.Buffer

	from := mail.Address{Name: msg.FromName, Address: msg.From}
	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	if len(msg.To) > 0 {
		fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(msg.To, ", "))
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", msg.Subject))
	if msg.MessageID != "" {
		fmt.Fprintf(&buf, "Message-ID: %s\r\n", msg.MessageID)
	}
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")

	mixed := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixed.Boundary())

	if err := writeAlternative(mixed, msg); err != nil {
		return nil, err
	}

	for _, att := range msg.Attachments {
		attHeader := make(textproto.MIMEHeader)
		attHeader.Set("Content-Type", att.ContentType)
		attHeader.Set("Content-Transfer-Encoding", "base64")
		attHeader.Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%s", mime.QEncoding.Encode("UTF-8", att.Filename)))

		part, err := mixed.CreatePart(attHeader)
		if err != nil {
			return nil, fmt.Errorf("failed to create attachment part: %w", err)
		}
		if _, err := part.Write([]byte(encodeBase64WithLineBreaks(att.Content))); err != nil {
			return nil, fmt.Errorf("failed to write attachment part: %w", err)
		}
	}

	if err := mixed.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize message: %w", err)
	}
	return buf.Bytes(), nil
}

// writeAlternative writes the multipart/alternative body pair into the
// enclosing multipart/mixed writer.
func writeAlternative(mixed *multipart.Writer, msg *Email) error {
	var inner bytes.Buffer
	alt := multipart.NewWriter(&inner)

	if msg.TextBody != "" {
		textHeader := make(textproto.MIMEHeader)
		textHeader.Set("Content-Type", "text/plain; charset=UTF-8")
		part, err := alt.CreatePart(textHeader)
		if err != nil {
			return fmt.Errorf("failed to create text part: %w", err)
		}
		if _, err := part.Write([]byte(msg.TextBody)); err != nil {
			return fmt.Errorf("failed to write text part: %w", err)
		}
	}

	if msg.HtmlBody != "" {
		htmlHeader := make(textproto.MIMEHeader)
		htmlHeader.Set("Content-Type", "text/html; charset=UTF-8")
		part, err := alt.CreatePart(htmlHeader)
		if err != nil {
			return fmt.Errorf("failed to create html part: %w", err)
		}
		if _, err := part.Write([]byte(msg.HtmlBody)); err != nil {
			return fmt.Errorf("failed to write html part: %w", err)
		}
	}

	if err := alt.Close(); err != nil {
		return fmt.Errorf("failed to finalize alternative part: %w", err)
	}

	altHeader := make(textproto.MIMEHeader)
	altHeader.Set("Content-Type",
		fmt.Sprintf("multipart/alternative; boundary=%q", alt.Boundary()))
	part, err := mixed.CreatePart(altHeader)
	if err != nil {
		return fmt.Errorf("failed to create alternative part: %w", err)
	}
	if _, err := part.Write(inner.Bytes()); err != nil {
		return fmt.Errorf("failed to write alternative part: %w", err)
	}
	return nil
}

// encodeBase64WithLineBreaks encodes bytes to base64 with 76-character line
// breaks per RFC 2045.
func encodeBase64WithLineBreaks(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	var lines []string
	for i := 0; i < len(encoded); i += 76 {
		end := i + 76
		if end > len(encoded) {
			end = len(encoded)
		}
		lines = append(lines, encoded[i:end])
	}
	return strings.Join(lines, "\r\n")
}

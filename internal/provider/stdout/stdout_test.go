package stdout

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shemeka/bulkmailer/internal/email"
)

func TestName(t *testing.T) {
	t.Parallel()
	if got := New().Name(); got != "stdout" {
		t.Errorf("Name(): got %q, want %q", got, "stdout")
	}
}

func TestSend_PrintsMessage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	msg := email.Build("sender@example.com", "Shemeka Industries", "to@example.com", "Great Opportunity", "<h1>Offer</h1>")

	if err := p.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "From: Shemeka Industries <sender@example.com>") {
		t.Errorf("output missing From line:\n%s", out)
	}
	if !strings.Contains(out, "To: to@example.com") {
		t.Errorf("output missing To line:\n%s", out)
	}
	if !strings.Contains(out, "Subject: Great Opportunity") {
		t.Errorf("output missing Subject line:\n%s", out)
	}
	if !strings.Contains(out, "<h1>Offer</h1>") {
		t.Errorf("output missing HTML body:\n%s", out)
	}
}

func TestSend_PrintsAttachmentSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	att := email.Attachment{
		Filename:    "brochure.pdf",
		ContentType: "application/pdf",
		Content:     bytes.Repeat([]byte("x"), 2048),
	}
	msg := email.Build("sender@example.com", "", "to@example.com", "s", "<p>Hi</p>", att)

	if err := p.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), "Attachments: brochure.pdf (2.0 KB)") {
		t.Errorf("output missing attachment summary:\n%s", buf.String())
	}
}

func TestFormatSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bytes int
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}

	for _, tt := range tests {
		if got := formatSize(tt.bytes); got != tt.want {
			t.Errorf("formatSize(%d): got %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

package email

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuild_SingleRecipient(t *testing.T) {
	t.Parallel()

	msg := Build("sender@example.com", "Shemeka", "to@example.com", "Hello", "<p>Hi</p>")

	if msg.From != "sender@example.com" {
		t.Errorf("From: got %q, want %q", msg.From, "sender@example.com")
	}
	if len(msg.To) != 1 || msg.To[0] != "to@example.com" {
		t.Errorf("To: got %v, want [to@example.com]", msg.To)
	}
	if msg.Subject != "Hello" {
		t.Errorf("Subject: got %q, want %q", msg.Subject, "Hello")
	}
	if msg.HtmlBody != "<p>Hi</p>" {
		t.Errorf("HtmlBody: got %q, want %q", msg.HtmlBody, "<p>Hi</p>")
	}
	if msg.TextBody == "" {
		t.Error("expected a plain-text fallback body")
	}
	if len(msg.Attachments) != 0 {
		t.Errorf("Attachments: got %d, want 0", len(msg.Attachments))
	}
}

func TestBuild_MessageIDUsesSenderDomain(t *testing.T) {
	t.Parallel()

	msg := Build("sender@example.com", "", "to@example.com", "s", "<p></p>")

	if !strings.HasPrefix(msg.MessageID, "<") || !strings.HasSuffix(msg.MessageID, "@example.com>") {
		t.Errorf("MessageID: got %q, want <uuid@example.com>", msg.MessageID)
	}
}

func TestBuild_FreshMessageIDPerCall(t *testing.T) {
	t.Parallel()

	a := Build("s@x.com", "", "a@x.com", "s", "<p></p>")
	b := Build("s@x.com", "", "b@x.com", "s", "<p></p>")

	if a.MessageID == b.MessageID {
		t.Errorf("expected distinct Message-IDs, both %q", a.MessageID)
	}
}

func TestLoadAttachment_GuessesContentType(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "brochure.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	att, err := LoadAttachment(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if att.Filename != "brochure.pdf" {
		t.Errorf("Filename: got %q, want %q", att.Filename, "brochure.pdf")
	}
	if att.ContentType != "application/pdf" {
		t.Errorf("ContentType: got %q, want %q", att.ContentType, "application/pdf")
	}
	if string(att.Content) != "%PDF-1.4" {
		t.Errorf("Content: got %q, want %q", att.Content, "%PDF-1.4")
	}
}

func TestLoadAttachment_UnknownExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "payload.qqq")
	if err := os.WriteFile(path, []byte{0x01, 0x02}, 0o600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	att, err := LoadAttachment(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if att.ContentType != "application/octet-stream" {
		t.Errorf("ContentType: got %q, want %q", att.ContentType, "application/octet-stream")
	}
}

func TestLoadAttachment_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadAttachment(filepath.Join(t.TempDir(), "nope.pdf"))
	if err == nil {
		t.Fatal("expected error for missing attachment")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

// Package roster provides the campaign recipient model and loaders for
// recipient lists from Excel workbooks or literal address lists.
package roster

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"
)

// Mode classifies the sending mode of a campaign.
type Mode string

const (
	ModeCamp   Mode = "camp"
	ModeLead   Mode = "lead"
	ModeClient Mode = "client"
	ModeAdhoc  Mode = "adhoc"
)

// MailType classifies the kind of mail being sent.
type MailType string

const (
	TypeIntro    MailType = "intro"
	TypeFollowup MailType = "followup"
	TypeReply    MailType = "reply"
)

// Recipient is one entry in a campaign roster. The UID is generated once at
// construction and identifies the send in logs.
type Recipient struct {
	Email      string
	Name       string
	CampaignID int
	MailType   MailType
	Mode       Mode
	UID        string
}

// Campaign carries the per-run classification applied to every recipient
// loaded into a roster.
type Campaign struct {
	ID       int
	MailType MailType
	Mode     Mode
}

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeCamp, ModeLead, ModeClient, ModeAdhoc:
		return Mode(strings.ToLower(s)), nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// ParseMailType validates a mail type string.
func ParseMailType(s string) (MailType, error) {
	switch MailType(strings.ToLower(s)) {
	case TypeIntro, TypeFollowup, TypeReply:
		return MailType(strings.ToLower(s)), nil
	}
	return "", fmt.Errorf("unknown mail type %q", s)
}

// New builds a Recipient for the given address, validating it per RFC 5322
// and assigning a fresh UID.
func New(address, name string, c Campaign) (Recipient, error) {
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return Recipient{}, fmt.Errorf("invalid recipient address %q: %w", address, err)
	}

	return Recipient{
		Email:      parsed.Address,
		Name:       name,
		CampaignID: c.ID,
		MailType:   c.MailType,
		Mode:       c.Mode,
		UID:        newUID(c),
	}, nil
}

// FromList builds a roster from a comma-separated literal address list.
// Invalid addresses are rejected, not skipped: a literal list is
// caller-supplied and a typo in it should surface immediately.
func FromList(list string, c Campaign) ([]Recipient, error) {
	var recipients []Recipient
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		r, err := New(raw, "", c)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, r)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("recipient list is empty")
	}
	return recipients, nil
}

// newUID generates a short run-unique identifier of the form
// {mode}{campaignID:04d}_{mailType}_{4 hex chars}.
func newUID(c Campaign) string {
	var b [2]byte
	// rand.Read on the crypto source never fails on supported platforms.
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("%s%04d_%s_%s", c.Mode, c.ID, c.MailType, hex.EncodeToString(b[:]))
}

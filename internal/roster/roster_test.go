package roster

import (
	"regexp"
	"strings"
	"testing"
)

var testCampaign = Campaign{ID: 1001, MailType: TypeIntro, Mode: ModeCamp}

func TestNew_ValidAddress(t *testing.T) {
	t.Parallel()

	r, err := New("sonu@example.com", "Sonu Gupta", testCampaign)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Email != "sonu@example.com" {
		t.Errorf("Email: got %q, want %q", r.Email, "sonu@example.com")
	}
	if r.Name != "Sonu Gupta" {
		t.Errorf("Name: got %q, want %q", r.Name, "Sonu Gupta")
	}
	if r.CampaignID != 1001 {
		t.Errorf("CampaignID: got %d, want 1001", r.CampaignID)
	}
}

func TestNew_InvalidAddress(t *testing.T) {
	t.Parallel()

	if _, err := New("not-an-address", "", testCampaign); err == nil {
		t.Fatal("expected error for invalid address")
	}
}

func TestNew_UIDFormat(t *testing.T) {
	t.Parallel()

	r, err := New("a@example.com", "", testCampaign)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pattern := regexp.MustCompile(`^camp1001_intro_[0-9a-f]{4}$`)
	if !pattern.MatchString(r.UID) {
		t.Errorf("UID: got %q, want match for %s", r.UID, pattern)
	}
}

func TestNew_UIDsAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		r, err := New("a@example.com", "", testCampaign)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen[r.UID] = true
	}
	// 50 draws from a 16-bit space collide occasionally, but not down to one.
	if len(seen) < 2 {
		t.Errorf("expected varied UIDs, got %d distinct of 50", len(seen))
	}
}

func TestFromList_Order(t *testing.T) {
	t.Parallel()

	recipients, err := FromList("a@x.com, b@x.com,c@x.com", testCampaign)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a@x.com", "b@x.com", "c@x.com"}
	if len(recipients) != len(want) {
		t.Fatalf("got %d recipients, want %d", len(recipients), len(want))
	}
	for i, r := range recipients {
		if r.Email != want[i] {
			t.Errorf("recipient %d: got %q, want %q", i, r.Email, want[i])
		}
	}
}

func TestFromList_InvalidAddressFails(t *testing.T) {
	t.Parallel()

	_, err := FromList("a@x.com, nonsense", testCampaign)
	if err == nil {
		t.Fatal("expected error for invalid literal address")
	}
	if !strings.Contains(err.Error(), "nonsense") {
		t.Errorf("error should name the bad address, got %v", err)
	}
}

func TestFromList_Empty(t *testing.T) {
	t.Parallel()

	if _, err := FromList(" , ", testCampaign); err == nil {
		t.Fatal("expected error for empty list")
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	m, err := ParseMode("LEAD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != ModeLead {
		t.Errorf("got %q, want %q", m, ModeLead)
	}

	if _, err := ParseMode("bogus"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestParseMailType(t *testing.T) {
	t.Parallel()

	mt, err := ParseMailType("Followup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mt != TypeFollowup {
		t.Errorf("got %q, want %q", mt, TypeFollowup)
	}

	if _, err := ParseMailType("spam"); err == nil {
		t.Error("expected error for unknown mail type")
	}
}

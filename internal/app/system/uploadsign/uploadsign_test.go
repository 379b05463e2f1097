package uploadsign

import (
	"testing"
	"time"
)

func testSigner() *Signer {
	s := New(Config{CloudName: "demo", APIKey: "key123", APISecret: "secret"})
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s
}

func TestSign_KnownAnswer(t *testing.T) {
	s := testSigner()
	got := s.Sign(map[string]string{
		"timestamp": "1700000000",
		"folder":    "clients/acme",
	})
	// echo -n 'folder=clients/acme&timestamp=1700000000secret' | sha1sum
	want := "6b002dee8a791a234b05a26a21593c0bdae356b5"
	if got != want {
		t.Errorf("Sign() = %q, want %q", got, want)
	}
}

func TestSign_SortsParamsAndSkipsEmpty(t *testing.T) {
	s := testSigner()
	a := s.Sign(map[string]string{"b": "2", "a": "1", "c": ""})
	b := s.Sign(map[string]string{"a": "1", "b": "2"})
	if a != b {
		t.Errorf("signatures differ: %q vs %q", a, b)
	}
}

func TestIssue_ScopesFolderToTenant(t *testing.T) {
	s := testSigner()
	ticket, err := s.Issue("acme")
	if err != nil {
		t.Fatalf("Issue() = %v", err)
	}
	if ticket.Folder != "clients/acme" {
		t.Errorf("Folder = %q", ticket.Folder)
	}
	if ticket.UploadURL != "https://api.cloudinary.com/v1_1/demo/image/upload" {
		t.Errorf("UploadURL = %q", ticket.UploadURL)
	}
	if ticket.Timestamp != 1700000000 {
		t.Errorf("Timestamp = %d", ticket.Timestamp)
	}
	if ticket.Signature != "6b002dee8a791a234b05a26a21593c0bdae356b5" {
		t.Errorf("Signature = %q", ticket.Signature)
	}
}

func TestIssue_RequiresCredentials(t *testing.T) {
	s := New(Config{CloudName: "demo"})
	if s.Enabled() {
		t.Error("partial config should not be enabled")
	}
	if _, err := s.Issue("acme"); err == nil {
		t.Error("Issue() without credentials should fail")
	}
}

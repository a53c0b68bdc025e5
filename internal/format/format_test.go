package format

import (
	"strings"
	"testing"
	"time"
)

func TestLocalInputRoundTrip(t *testing.T) {
	instants := []time.Time{
		time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}

	for _, want := range instants {
		got, err := FromLocalInput(ToLocalInput(want))
		if err != nil {
			t.Fatalf("round trip of %v: %v", want, err)
		}
		if got == nil || !got.Equal(want) {
			t.Fatalf("round trip of %v: got %v", want, got)
		}
	}
}

func TestFromLocalInputEmpty(t *testing.T) {
	got, err := FromLocalInput("  ")
	if err != nil {
		t.Fatalf("empty input should mean no deadline, got error: %v", err)
	}
	if got != nil {
		t.Fatalf("empty input should yield nil, got %v", got)
	}
}

func TestFromLocalInputInvalid(t *testing.T) {
	if _, err := FromLocalInput("next tuesday"); err == nil {
		t.Fatal("expected error for unparseable input")
	}
}

func TestFromLocalInputNormalizesToUTC(t *testing.T) {
	got, err := FromLocalInput("2025-06-01T20:30")
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC-normalized instant, got location %v", got.Location())
	}
}

func TestDefaultDeadline(t *testing.T) {
	now := time.Date(2025, 6, 1, 11, 45, 33, 987, time.Local)
	got := DefaultDeadline(now, 7, 20, 30)

	if got.Day() != 8 || got.Month() != time.June || got.Year() != 2025 {
		t.Fatalf("expected 2025-06-08, got %v", got)
	}
	if got.Hour() != 20 || got.Minute() != 30 {
		t.Fatalf("expected 20:30 local, got %02d:%02d", got.Hour(), got.Minute())
	}
	if got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected zeroed sub-minute precision, got %v", got)
	}
}

func TestEscapeForDisplayNeutralizesMarkup(t *testing.T) {
	got := EscapeForDisplay(`<script>alert("hi") & 'bye'</script>`)
	if strings.ContainsAny(got, "<>\"'") {
		t.Fatalf("escaped output still contains reserved characters: %q", got)
	}
}

func TestEscapeForDisplayIdentityOnSafeText(t *testing.T) {
	const safe = "ship release v2 by Friday"
	if got := EscapeForDisplay(safe); got != safe {
		t.Fatalf("safe text should pass through unchanged, got %q", got)
	}
	if got := EscapeForDisplay(""); got != "" {
		t.Fatalf("absent input should yield empty string, got %q", got)
	}
}

func TestSplitLinks(t *testing.T) {
	got := SplitLinks("  https://a.example \n\n https://b.example\n \n")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected links: %v", got)
	}
	if got := SplitLinks(""); got != nil {
		t.Fatalf("empty field should yield no links, got %v", got)
	}
}

func TestValidateLinkURL(t *testing.T) {
	if err := ValidateLinkURL("https://example.com/x?y=1"); err != nil {
		t.Fatalf("https link should be allowed: %v", err)
	}
	if err := ValidateLinkURL("HTTP://example.com"); err != nil {
		t.Fatalf("http link should be allowed regardless of case: %v", err)
	}
	if err := ValidateLinkURL("javascript:alert(1)"); err == nil {
		t.Fatal("javascript scheme must be rejected")
	}
	if err := ValidateLinkURL("file:///etc/passwd"); err == nil {
		t.Fatal("file scheme must be rejected")
	}
}

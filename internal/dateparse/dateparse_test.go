package dateparse

import (
	"errors"
	"testing"
	"time"
)

func TestParseAcceptsAllLayouts(t *testing.T) {
	want := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{"04/20/2025", "2025-04-20", "20-04-2025", " 04/20/2025 "} {
		got, err := Parse(input)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", input, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("Parse(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestParseAmbiguousInputUsesLayoutOrder(t *testing.T) {
	// 03-04-2025 parses under both day-month and month-day layouts; the
	// day-month layout is listed first and must win.
	got, err := Parse("03-04-2025")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if want := time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Parse(\"03-04-2025\") = %v, want %v", got, want)
	}
}

func TestParseRejectsNonsense(t *testing.T) {
	for _, input := range []string{"soon", "", "2025/04/20", "20250420"} {
		if _, err := Parse(input); !errors.Is(err, ErrUnparseable) {
			t.Errorf("Parse(%q): expected ErrUnparseable, got %v", input, err)
		}
	}
}

func TestFormatRoundTrips(t *testing.T) {
	in := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	out, err := Parse(Format(in))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !out.Equal(in) {
		t.Errorf("round trip changed the instant: %v != %v", out, in)
	}
}

func TestCodedDuration(t *testing.T) {
	if got := CodedDuration("3d"); got != 3*24*time.Hour {
		t.Errorf("CodedDuration(\"3d\") = %v", got)
	}
	if got := CodedDuration(" 7D "); got != 7*24*time.Hour {
		t.Errorf("CodedDuration(\" 7D \") = %v", got)
	}
	// unknown codes fall back to one day
	if got := CodedDuration("2w"); got != 24*time.Hour {
		t.Errorf("CodedDuration(\"2w\") = %v", got)
	}
}

func TestExpiry(t *testing.T) {
	issued := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	if got := Expiry(issued, 3); !got.Equal(issued.Add(72 * time.Hour)) {
		t.Errorf("Expiry = %v", got)
	}
}

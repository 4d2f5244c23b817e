package generator

import "testing"

func TestCleanText_StripsLeadingHeadings(t *testing.T) {
	in := "# Product Copy\n\n## Draft\n\nA solid widget."
	got := CleanText(in)
	if got != "A solid widget." {
		t.Fatalf("got %q", got)
	}
}

func TestCleanText_StripsEnglishBoilerplate(t *testing.T) {
	cases := map[string]string{
		"Sure! Here's your description:\nA solid widget.": "A solid widget.",
		"Certainly, A solid widget.":                      "A solid widget.",
		"Here is the marketed copy:\n\nA solid widget.":   "A solid widget.",
		"Of course! A solid widget.":                      "A solid widget.",
	}
	for in, want := range cases {
		if got := CleanText(in); got != want {
			t.Errorf("CleanText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanText_StripsHebrewBoilerplate(t *testing.T) {
	in := "הנה התיאור המבוקש:\nמוצר מעולה לבית."
	got := CleanText(in)
	if got != "מוצר מעולה לבית." {
		t.Fatalf("got %q", got)
	}
}

func TestCleanText_NormalizesListMarkers(t *testing.T) {
	in := "- Durable\n* Lightweight\n  - Compact"
	want := "• Durable\n• Lightweight\n• Compact"
	if got := CleanText(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCleanText_KeepsInteriorBlankLines(t *testing.T) {
	in := "# Heading\n\nFirst paragraph.\n\nSecond paragraph.\n\n"
	want := "First paragraph.\n\nSecond paragraph."
	if got := CleanText(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCleanText_PreservesBulletsInBoilerplateBody(t *testing.T) {
	in := "Sure, here are the features:\n- One\n- Two"
	want := "• One\n• Two"
	if got := CleanText(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

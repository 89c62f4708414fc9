package roads

import "testing"

func TestParseJunctionClipBothJunctions(t *testing.T) {
	clip := ParseJunctionClip("Upper Bonifacio St. - Junction Magsaysay Ave. to Junction Gen Luna Rd")
	if clip == nil {
		t.Fatalf("expected a clip")
	}
	if clip.Main != "Upper Bonifacio St." {
		t.Fatalf("unexpected main: %q", clip.Main)
	}
	if clip.A != "Magsaysay Ave." || clip.B != "Gen Luna Rd" {
		t.Fatalf("unexpected bounds: %q / %q", clip.A, clip.B)
	}
}

func TestParseJunctionClipRejectsNonRoadBound(t *testing.T) {
	clip := ParseJunctionClip("Upper Bonifacio St. - Junction Magsaysay Ave. to Dr Cuesta's Property")
	if clip != nil {
		t.Fatalf("expected nil for non-road bound, got %+v", clip)
	}
}

func TestParseJunctionClipShortForm(t *testing.T) {
	clip := ParseJunctionClip("Session Rd - Junction Magsaysay Ave to Harrison Rd")
	if clip == nil {
		t.Fatalf("expected a clip")
	}
	if clip.A != "Magsaysay Ave" || clip.B != "Harrison Rd" {
		t.Fatalf("unexpected bounds: %+v", clip)
	}
}

func TestParseJunctionClipMalformedInputs(t *testing.T) {
	inputs := []string{
		"",
		"Session Rd",
		"Session Rd - all along the barangay road",
		"Rd - Junction A to Junction B",
		"Session Rd - Junction Lot 5 to Junction Harrison Rd",
	}
	for _, in := range inputs {
		if clip := ParseJunctionClip(in); clip != nil {
			t.Fatalf("expected nil for %q, got %+v", in, clip)
		}
	}
}

func TestExtractCandidates(t *testing.T) {
	got := ExtractCandidates("Upper Bonifacio St. - Junction Magsaysay Ave. to Junction Gen Luna Rd")
	want := []string{"Upper Bonifacio St.", "Magsaysay Ave.", "Gen Luna Rd"}
	if len(got) != len(want) {
		t.Fatalf("expected %d candidates, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractCandidatesWholeTextWithoutSeparator(t *testing.T) {
	got := ExtractCandidates("Session Rd")
	if len(got) != 1 || got[0] != "Session Rd" {
		t.Fatalf("unexpected candidates: %v", got)
	}
}

func TestExtractCandidatesFiltersShortAndDuplicate(t *testing.T) {
	got := ExtractCandidates("Rd - Junction Magsaysay Ave to junction MAGSAYSAY AVE")
	if len(got) != 1 || got[0] != "Magsaysay Ave" {
		t.Fatalf("expected one deduplicated candidate, got %v", got)
	}
}

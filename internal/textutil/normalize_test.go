package textutil

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Session   Road ", "session road"},
		{"Gen. Luna St.", "gen. luna st."},
		{"Dr Cuesta's Property", "dr cuestas property"},
		{"Peñafrancia Ave", "penafrancia ave"},
		{"UPPER-BONIFACIO", "upper-bonifacio"},
		{"", ""},
		{"(CR) / #12", "cr 12"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Session Rd, Baguio City",
		"Peñafrancia Ave. - Junction Magsaysay",
		"  MIXED case   Text . - ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestTokensDropShort(t *testing.T) {
	got := Tokens("Session Rd at KM 5")
	if len(got) != 1 || got[0] != "session" {
		t.Fatalf("unexpected tokens: %v", got)
	}
}

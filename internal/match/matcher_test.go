package match

import (
	"math"
	"testing"

	"github.com/juliecor/zonal-backend/internal/models"
)

func baguioRecord() models.Record {
	return models.Record{
		Province:       "Benguet",
		Municipality:   "Baguio City",
		Barangay:       "Session Road",
		Vicinity:       "Session Rd",
		Classification: "CR",
		ZonalValue:     25000,
	}
}

func TestScoreNonNegative(t *testing.T) {
	records := []models.Record{
		baguioRecord(),
		{Municipality: "Davao City", Barangay: "Poblacion", Vicinity: "Quirino Ave", ZonalValue: 1},
		{ZonalValue: 5},
	}
	for _, rec := range records {
		if s := Score(rec, "completely unrelated text", nil); s < 0 {
			t.Fatalf("score must be non-negative for parseable records, got %f for %+v", s, rec)
		}
	}
}

func TestUnparseableZonalValuePenalty(t *testing.T) {
	good := baguioRecord()
	bad := baguioRecord()
	bad.ZonalValue = math.NaN()

	query := "session road baguio"
	if Score(bad, query, nil) >= Score(good, query, nil) {
		t.Fatalf("NaN zonal value must rank strictly below an identical parseable record")
	}

	ranked := Rank([]models.Record{bad, good}, query, nil)
	if ranked[0].Record.ZonalValue != 25000 {
		t.Fatalf("parseable record should rank first, got %+v", ranked[0])
	}
}

func TestRankStableAndDeterministic(t *testing.T) {
	a := baguioRecord()
	a.Classification = "A"
	b := baguioRecord()
	b.Classification = "B"
	c := baguioRecord()
	c.Classification = "C"
	records := []models.Record{a, b, c}

	query := "session road baguio"
	first := Rank(records, query, nil)
	for i := 0; i < 5; i++ {
		again := Rank(records, query, nil)
		for j := range first {
			if first[j].Record.Classification != again[j].Record.Classification {
				t.Fatalf("ranking not deterministic on run %d", i)
			}
		}
	}
	// Equal scores keep dataset order.
	if first[0].Record.Classification != "A" || first[1].Record.Classification != "B" || first[2].Record.Classification != "C" {
		t.Fatalf("tie order not stable: %+v", first)
	}
}

func TestRankCapsAtTopN(t *testing.T) {
	records := make([]models.Record, 10)
	for i := range records {
		records[i] = baguioRecord()
	}
	if got := Rank(records, "session", nil); len(got) != TopN {
		t.Fatalf("expected %d results, got %d", TopN, len(got))
	}
}

func TestBaguioQueryRanksHigh(t *testing.T) {
	records := []models.Record{
		{Municipality: "Baguio City", Barangay: "Camp 7", Vicinity: "Kennon Rd", Classification: "RR", ZonalValue: 8000},
		baguioRecord(),
		{Municipality: "Baguio City", Barangay: "Loakan", Vicinity: "Loakan Rd", Classification: "I", ZonalValue: 5000},
	}

	ranked := Rank(records, "session road baguio", nil)
	if ranked[0].Record.Vicinity != "Session Rd" {
		t.Fatalf("expected the Session Rd record first, got %+v", ranked[0].Record)
	}
	if ranked[0].Score <= HighThreshold {
		t.Fatalf("expected score above %d, got %f", HighThreshold, ranked[0].Score)
	}
	if Confidence(ranked[0].Score) != "High" {
		t.Fatalf("expected High confidence, got %s", Confidence(ranked[0].Score))
	}
}

func TestHintBonus(t *testing.T) {
	rec := baguioRecord()
	base := Score(rec, "session road", nil)
	hinted := Score(rec, "session road", &Hints{Municipality: "Baguio City", Province: "Benguet"})
	if hinted != base+2*HintBonus {
		t.Fatalf("expected both hint bonuses, base %f hinted %f", base, hinted)
	}
	partial := Score(rec, "session road", &Hints{Municipality: "Davao City", Province: "Benguet"})
	if partial != base+HintBonus {
		t.Fatalf("expected one hint bonus, got %f over base %f", partial, base)
	}
}

func TestConfidenceThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{701, "High"},
		{700, "Medium"},
		{351, "Medium"},
		{350, "Low"},
		{1, "Low"},
		{0, "unknown"},
		{-10, "unknown"},
	}
	for _, c := range cases {
		if got := Confidence(c.score); got != c.want {
			t.Fatalf("Confidence(%f) = %s, want %s", c.score, got, c.want)
		}
	}
}

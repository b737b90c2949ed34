package classify

import (
	"testing"

	"github.com/park285/detailed-moves/internal/domain"
)

type fakeBook map[string]string

func (f fakeBook) Match(pgn string) (domain.OpeningBookEntry, bool) {
	name, ok := f[pgn]
	if !ok {
		return domain.OpeningBookEntry{}, false
	}
	return domain.OpeningBookEntry{Moves: pgn, Name: name}, true
}

func records(sans []string, evals []float64) []domain.MoveRecord {
	out := make([]domain.MoveRecord, len(sans))
	for i, s := range sans {
		out[i] = domain.MoveRecord{Index: i, SAN: s, Color: domain.ColorOf(i)}
		if i < len(evals) {
			out[i].RawEvaluation = evals[i]
			out[i].HasEvaluation = true
		}
	}
	return out
}

func tiers(res Result) []domain.Tier {
	out := make([]domain.Tier, len(res.Moves))
	for i, m := range res.Moves {
		out[i] = m.Tier
	}
	return out
}

func TestRunSignFlipForSecondMover(t *testing.T) {
	// black sees a rising evaluation as a loss
	res := Run(records([]string{"e4", "e5", "Nf3"}, []float64{0.2, 0.9, 0.85}), nil)
	for i, tier := range tiers(res) {
		if tier != domain.TierNone {
			t.Fatalf("move %d tier = %q", i, tier)
		}
	}

	res = Run(records([]string{"e4", "e5", "Nf3"}, []float64{0.9, 0.2, 0.25}), nil)
	got := tiers(res)
	if got[0] != domain.TierNone || got[1] != domain.TierGood || got[2] != domain.TierNone {
		t.Fatalf("tiers = %v", got)
	}
	if res.Tally.Black.Good != 1 || res.Tally.White.Total() != 0 {
		t.Fatalf("tally = %+v", res.Tally)
	}
}

func TestGradeBands(t *testing.T) {
	cases := []struct {
		delta float64
		want  domain.Tier
	}{
		{2.5, domain.TierBrilliant},
		{2.0, domain.TierBrilliant},
		{1.99, domain.TierExcellent},
		{1.0, domain.TierExcellent},
		{0.99, domain.TierGood},
		{0.6, domain.TierGood},
		{0.59, domain.TierNone},
		{-3, domain.TierNone},
	}
	for _, tc := range cases {
		if got := Grade(tc.delta, domain.White); got != tc.want {
			t.Fatalf("white Grade(%v) = %q, want %q", tc.delta, got, tc.want)
		}
		if got := Grade(-tc.delta, domain.Black); got != tc.want {
			t.Fatalf("black Grade(%v) = %q, want %q", -tc.delta, got, tc.want)
		}
	}
}

func TestRunIndexZeroNeverTiered(t *testing.T) {
	res := Run(records([]string{"e4"}, []float64{50}), nil)
	if res.Moves[0].Tier != domain.TierNone || res.Tally.White.Total() != 0 {
		t.Fatalf("first move tiered: %+v", res.Moves[0])
	}
}

func TestRunBookMoves(t *testing.T) {
	book := fakeBook{"1. e4": "King's Pawn Game", "1. e4 e5": "King's Pawn Game"}
	res := Run(records([]string{"e4", "e5", "Nf3"}, []float64{0.3, 5.0, 5.1}), book)
	for i := 0; i < 2; i++ {
		m := res.Moves[i]
		if !m.IsBook || m.Tier != domain.TierNone || m.OpeningName != "King's Pawn Game" {
			t.Fatalf("move %d = %+v", i, m)
		}
	}
	if res.Tally.White.Book != 1 || res.Tally.Black.Book != 1 {
		t.Fatalf("tally = %+v", res.Tally)
	}
	// the book move's evaluation still feeds the next delta
	if res.Moves[2].Tier != domain.TierNone {
		t.Fatalf("Nf3 tier = %q", res.Moves[2].Tier)
	}
}

func TestRunHostBookFlag(t *testing.T) {
	recs := records([]string{"d4", "d5"}, []float64{0.1, 0.1})
	recs[1].HostBook = true
	res := Run(recs, fakeBook{})
	if !res.Moves[1].IsBook || res.Moves[1].OpeningName != "" || res.Tally.Black.Book != 1 {
		t.Fatalf("host book = %+v tally %+v", res.Moves[1], res.Tally)
	}
}

func TestRunCheckmateCarriesEvaluation(t *testing.T) {
	recs := records([]string{"e4", "e5", "Qh5", "Nc6", "Qxf7#"}, []float64{0, 0, 0, 3, 100})
	recs[4].Checkmate = true
	res := Run(recs, nil)
	if res.Moves[4].Tier != domain.TierNone {
		t.Fatalf("mating move tiered")
	}
	if res.Moves[3].Tier != domain.TierNone {
		t.Fatalf("Nc6 tier = %q", res.Moves[3].Tier)
	}
}

func TestRunMissingEvaluationCarriesPrevious(t *testing.T) {
	recs := records([]string{"e4", "e5", "Nf3", "Nc6"}, []float64{0.2, 0.2})
	recs = append(recs[:2], domain.MoveRecord{Index: 2, SAN: "Nf3", Color: domain.White},
		domain.MoveRecord{Index: 3, SAN: "Nc6", Color: domain.Black, RawEvaluation: -1.0, HasEvaluation: true})
	res := Run(recs, nil)
	if res.Moves[2].Tier != domain.TierNone {
		t.Fatalf("unevaluated move tiered")
	}
	// delta against the carried 0.2
	if res.Moves[3].Tier != domain.TierExcellent {
		t.Fatalf("Nc6 tier = %q", res.Moves[3].Tier)
	}
}

func TestRunMateSentinelCanLookBrilliant(t *testing.T) {
	recs := records([]string{"e4", "f6", "d4", "g5"}, []float64{0.3, 0.5, 0.4, -100})
	res := Run(recs, nil)
	// the sentinel takes part in delta arithmetic like any other value
	if res.Moves[3].Tier != domain.TierBrilliant {
		t.Fatalf("tier = %q", res.Moves[3].Tier)
	}
}

func TestRunTallyExclusive(t *testing.T) {
	res := Run(records([]string{"a3", "a6", "b3", "b6", "c3", "c6"}, []float64{0, -2.5, 0, -1.2, -0.5, -1.3}), nil)
	total := res.Tally.White.Total() + res.Tally.Black.Total()
	tiered := 0
	for _, m := range res.Moves {
		if m.Tier != domain.TierNone {
			tiered++
		}
	}
	if total != tiered {
		t.Fatalf("tally %d != tiered %d", total, tiered)
	}
}

func TestRunDoesNotMutateInput(t *testing.T) {
	recs := records([]string{"e4", "e5"}, []float64{0, -3})
	_ = Run(recs, nil)
	if recs[1].Tier != domain.TierNone {
		t.Fatalf("input mutated")
	}
}

func TestBuildPGN(t *testing.T) {
	cases := map[string][]string{
		"":                {},
		"1. e4":           {"e4"},
		"1. e4 e5":        {"e4", "e5"},
		"1. e4 e5 2. Nf3": {"e4", "e5", "Nf3"},
	}
	for want, sans := range cases {
		if got := BuildPGN(sans); got != want {
			t.Fatalf("BuildPGN(%v) = %q, want %q", sans, got, want)
		}
	}
}

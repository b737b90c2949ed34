// Package classify grades moves from evaluation deltas and marks book moves.
package classify

import (
	"strconv"
	"strings"

	"github.com/park285/detailed-moves/internal/domain"
)

// Delta thresholds in pawns, checked from the highest band down.
const (
	BrilliantThreshold = 2.0
	ExcellentThreshold = 1.0
	GoodThreshold      = 0.6
)

// Lookup finds an opening whose move list equals the given PGN prefix.
type Lookup interface {
	Match(pgn string) (domain.OpeningBookEntry, bool)
}

type Result struct {
	Moves []domain.MoveRecord
	Tally domain.Tally
}

// Run classifies a copy of records. A nil lookup disables index matching;
// host-flagged book moves are still honoured.
func Run(records []domain.MoveRecord, lookup Lookup) Result {
	res := Result{Moves: make([]domain.MoveRecord, len(records))}
	copy(res.Moves, records)

	sans := make([]string, 0, len(records))
	previous := 0.0
	for i := range res.Moves {
		m := &res.Moves[i]
		sans = append(sans, m.SAN)
		m.Tier = domain.TierNone
		m.OpeningName = ""

		if m.HostBook {
			m.IsBook = true
		} else if lookup != nil {
			if entry, ok := lookup.Match(BuildPGN(sans)); ok {
				m.IsBook = true
				m.OpeningName = entry.Name
			}
		}
		if m.IsBook {
			res.Tally.Add(m.Color, domain.CategoryBook)
		}

		current := previous
		if m.HasEvaluation {
			current = m.RawEvaluation
		}
		if !m.IsBook && !m.Checkmate && m.Index > 0 && m.HasEvaluation {
			m.Tier = Grade(current-previous, m.Color)
			if cat, ok := m.Tier.Category(); ok {
				res.Tally.Add(m.Color, cat)
			}
		}
		previous = current
	}
	return res
}

// Grade maps an evaluation delta to a tier. Black gains when the
// evaluation drops, so its delta is negated first.
func Grade(delta float64, color domain.Color) domain.Tier {
	if color == domain.Black {
		delta = -delta
	}
	switch {
	case delta >= BrilliantThreshold:
		return domain.TierBrilliant
	case delta >= ExcellentThreshold:
		return domain.TierExcellent
	case delta >= GoodThreshold:
		return domain.TierGood
	default:
		return domain.TierNone
	}
}

// BuildPGN renders a SAN list as "1. e4 e5 2. Nf3".
func BuildPGN(sans []string) string {
	var b strings.Builder
	for i, s := range sans {
		if i%2 == 0 {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(i/2 + 1))
			b.WriteString(". ")
			b.WriteString(s)
			continue
		}
		b.WriteByte(' ')
		b.WriteString(s)
	}
	return strings.TrimSpace(b.String())
}

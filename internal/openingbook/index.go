// Package openingbook loads the opening table and answers move-sequence
// lookups against it.
package openingbook

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/park285/detailed-moves/internal/domain"
)

// Index is immutable once built and safe for concurrent readers.
type Index struct {
	entries []domain.OpeningBookEntry
	exact   map[string]int
	// prefix maps a sequence that is only the start of longer lines to the
	// shortest such line.
	prefix map[string]int
}

// Empty is what a failed load degrades to.
func Empty() *Index { return NewIndex(nil) }

func NewIndex(entries []domain.OpeningBookEntry) *Index {
	idx := &Index{
		entries: append([]domain.OpeningBookEntry(nil), entries...),
		exact:   make(map[string]int, len(entries)),
		prefix:  make(map[string]int),
	}
	plies := make([]int, len(idx.entries))
	for i, e := range idx.entries {
		key := Normalize(e.Moves)
		if key == "" {
			continue
		}
		if _, dup := idx.exact[key]; !dup {
			idx.exact[key] = i
		}
		plies[i] = len(moveTokens(key))
	}
	for i, e := range idx.entries {
		key := Normalize(e.Moves)
		tokens := strings.Fields(key)
		for end := 1; end < len(tokens); end++ {
			if strings.HasSuffix(tokens[end-1], ".") {
				continue
			}
			p := strings.Join(tokens[:end], " ")
			if prev, ok := idx.prefix[p]; ok && plies[prev] <= plies[i] {
				continue
			}
			idx.prefix[p] = i
		}
	}
	return idx
}

// ParseTable decodes the raw `[{moves, name}]` table.
func ParseTable(raw []byte) ([]domain.OpeningBookEntry, error) {
	var entries []domain.OpeningBookEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode opening table: %w", err)
	}
	return entries, nil
}

func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// Match looks pgn up case-insensitively with whitespace collapsed. An exact
// line wins; otherwise a sequence that opens a known line matches the
// shortest such line.
func (i *Index) Match(pgn string) (domain.OpeningBookEntry, bool) {
	if i == nil {
		return domain.OpeningBookEntry{}, false
	}
	key := Normalize(pgn)
	if key == "" {
		return domain.OpeningBookEntry{}, false
	}
	if n, ok := i.exact[key]; ok {
		return i.entries[n], true
	}
	if n, ok := i.prefix[key]; ok {
		return i.entries[n], true
	}
	return domain.OpeningBookEntry{}, false
}

func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func moveTokens(key string) []string {
	var out []string
	for _, tok := range strings.Fields(key) {
		if !strings.HasSuffix(tok, ".") {
			out = append(out, tok)
		}
	}
	return out
}

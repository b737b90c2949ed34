package domain

import "golang.org/x/net/html"

// Color identifies the side that played a half-move.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// ColorOf maps a dense move index to its side; even indices belong to white.
func ColorOf(index int) Color {
	if index%2 == 0 {
		return White
	}
	return Black
}

func ParseColor(s string) (Color, bool) {
	switch s {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	default:
		return "", false
	}
}

// MoveRecord is one played half-move as read during a single pass.
type MoveRecord struct {
	Index         int
	SAN           string
	Color         Color
	RawEvaluation float64
	HasEvaluation bool
	IsBook        bool
	HostBook      bool
	OpeningName   string
	Tier          Tier
	Checkmate     bool

	Element *html.Node `json:"-"`
}

type OpeningBookEntry struct {
	Moves string `json:"moves"`
	Name  string `json:"name"`
}

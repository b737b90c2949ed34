// Package san holds the small text rules applied to move notation read from
// the host page.
package san

import (
	"regexp"
	"strings"

	"github.com/park285/detailed-moves/internal/domain"
)

var (
	trailingSymbols = regexp.MustCompile(`[!?]+$`)
	promotionSuffix = regexp.MustCompile(`=?[QRBNqrbn]$`)
	squarePattern   = regexp.MustCompile(`^[a-h][1-8]$`)
)

// Clean strips annotation residue (one or many trailing !/? runs) and
// surrounding whitespace. Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	out := strings.TrimSpace(s)
	for {
		next := strings.TrimSpace(trailingSymbols.ReplaceAllString(out, ""))
		if next == out {
			return out
		}
		out = next
	}
}

// IsCheckmate reports whether the move delivers mate.
func IsCheckmate(s string) bool {
	return strings.HasSuffix(Clean(s), "#")
}

// Destination returns the target square written in the notation, or "" when
// it cannot be determined from the text alone.
func Destination(s string, color domain.Color) string {
	text := Clean(s)
	text = strings.TrimSuffix(text, "e.p.")
	text = strings.TrimSpace(text)

	castle := strings.TrimRight(text, "+#")
	castle = strings.ReplaceAll(castle, "0", "O")
	switch castle {
	case "O-O":
		if color == domain.Black {
			return "g8"
		}
		return "g1"
	case "O-O-O":
		if color == domain.Black {
			return "c8"
		}
		return "c1"
	}

	text = strings.TrimRight(text, "+#")
	text = promotionSuffix.ReplaceAllString(text, "")
	if len(text) < 2 {
		return ""
	}
	sq := text[len(text)-2:]
	if !squarePattern.MatchString(sq) {
		return ""
	}
	return sq
}

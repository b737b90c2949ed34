// Package extract reads played moves from the host document.
package extract

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/park285/detailed-moves/internal/domain"
	"github.com/park285/detailed-moves/internal/hostdoc"
	"github.com/park285/detailed-moves/internal/san"
)

var (
	ErrNoMoveContainer = errors.New("move container not found")
	ErrNoMoves         = errors.New("move container has no moves")
)

// MateValue stands in for any forced-mate evaluation.
const MateValue = 100.0

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Moves returns one record per played move in document order. Indices are
// dense over the records, so placeholders and san-less moves take no slot.
func Moves(root *html.Node, logger *zap.Logger) ([]domain.MoveRecord, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	container := hostdoc.MoveContainer(root)
	if container == nil {
		return nil, ErrNoMoveContainer
	}

	var out []domain.MoveRecord
	for _, mv := range hostdoc.SelMove.MatchAll(container) {
		if hostdoc.HasClass(mv, hostdoc.ClassEmpty) {
			continue
		}
		sanNode := hostdoc.SelSAN.MatchFirst(mv)
		if sanNode == nil {
			logger.Debug("san_missing")
			continue
		}

		idx := len(out)
		color := domain.ColorOf(idx)
		text := san.Clean(hostdoc.Text(sanNode))
		rec := domain.MoveRecord{
			Index:     idx,
			SAN:       text,
			Color:     color,
			HostBook:  hostBookFlag(sanNode),
			Checkmate: strings.HasSuffix(text, "#"),
			Element:   mv,
		}
		rec.IsBook = rec.HostBook

		if ev := hostdoc.SelEval.MatchFirst(mv); ev != nil {
			rec.HasEvaluation = true
			raw := strings.TrimSpace(hostdoc.Text(ev))
			v, ok := ParseEval(raw, color)
			if !ok {
				logger.Debug("eval_parse_failed",
					zap.Int("ply", idx),
					zap.String("san", text),
					zap.String("raw", raw),
				)
			}
			rec.RawEvaluation = v
		}
		out = append(out, rec)
	}

	if len(out) == 0 {
		return nil, ErrNoMoves
	}
	return out, nil
}

// ParseEval converts evaluation text to pawns from white's point of view.
// A mate marker maps to the sentinel with the sign of the side that did not
// move. Otherwise the leading numeric prefix is used; text without one gives
// 0 and ok=false.
func ParseEval(raw string, color domain.Color) (float64, bool) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "#") {
		if color == domain.White {
			return -MateValue, true
		}
		return MateValue, true
	}
	s = strings.ReplaceAll(s, "−", "-")
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// hostBookFlag reports a book icon placed by the host itself.
func hostBookFlag(sanNode *html.Node) bool {
	for _, icon := range hostdoc.SelBookIcon.MatchAll(sanNode) {
		if !hostdoc.IsInside(icon, sanNode, hostdoc.ClassBookWrapper) {
			return true
		}
	}
	return false
}

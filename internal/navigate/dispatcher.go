// Package navigate moves the host viewer between moves of one category.
package navigate

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/park285/detailed-moves/internal/domain"
	"github.com/park285/detailed-moves/internal/hostdoc"
)

var ErrDispatch = errors.New("activation not delivered")

// Activator asks the host to show the position after a ply.
type Activator interface {
	Press(ctx context.Context, ply int) error
	Click(ctx context.Context, ply int) error
}

type Dispatcher struct {
	doc       *hostdoc.Document
	activator Activator
	logger    *zap.Logger
}

func New(doc *hostdoc.Document, activator Activator, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{doc: doc, activator: activator, logger: logger}
}

// Next picks the ply to show for a (color, category) click: the first
// matching move after the current one, wrapping to the first match. ok is
// false when nothing matches.
func Next(root *html.Node, color domain.Color, cat domain.Category) (ply int, ok bool) {
	container := hostdoc.MoveContainer(root)
	if container == nil {
		return 0, false
	}
	all := hostdoc.PlayedMoves(container)
	current := hostdoc.IndexOf(all, hostdoc.SelActiveMove.MatchFirst(container))

	first := -1
	for i, mv := range all {
		if !matches(mv, color, cat) {
			continue
		}
		if first < 0 {
			first = i
		}
		if i > current {
			return i, true
		}
	}
	if first < 0 {
		return 0, false
	}
	return first, true
}

func matches(mv *html.Node, color domain.Color, cat domain.Category) bool {
	if v, _ := hostdoc.Attr(mv, hostdoc.AttrMoveColor); v != string(color) {
		return false
	}
	if cat == domain.CategoryBook {
		v, _ := hostdoc.Attr(mv, hostdoc.AttrIsBook)
		return v == "true"
	}
	return hostdoc.HasClass(mv, cat.Class())
}

// Dispatch handles one summary click. Clicking an empty category does
// nothing.
func (d *Dispatcher) Dispatch(ctx context.Context, color domain.Color, cat domain.Category) error {
	if !cat.Valid() {
		return fmt.Errorf("unknown category %q", cat)
	}
	var ply int
	var ok bool
	d.doc.Read(func(root *html.Node) {
		ply, ok = Next(root, color, cat)
	})
	if !ok {
		d.logger.Debug("navigate_no_candidates", zap.String("color", string(color)), zap.String("category", string(cat)))
		return nil
	}

	pressErr := d.activator.Press(ctx, ply)
	if pressErr == nil {
		d.logger.Debug("navigate_activated", zap.Int("ply", ply), zap.String("gesture", "press"))
		return nil
	}
	clickErr := d.activator.Click(ctx, ply)
	if clickErr == nil {
		d.logger.Debug("navigate_activated", zap.Int("ply", ply), zap.String("gesture", "click"), zap.NamedError("press_error", pressErr))
		return nil
	}
	return fmt.Errorf("%w: ply %d: %w", ErrDispatch, ply, errors.Join(pressErr, clickErr))
}

// Package boardsync keeps the single board indicator in step with the
// active move.
package boardsync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/park285/detailed-moves/internal/domain"
	"github.com/park285/detailed-moves/internal/hostdoc"
	"github.com/park285/detailed-moves/internal/msgcat"
	"github.com/park285/detailed-moves/internal/san"
	"github.com/park285/detailed-moves/pkg/hostproto"
)

var ErrSquareUnresolved = errors.New("destination square unresolved")

// IndicatorPublisher delivers indicator frames to the page.
type IndicatorPublisher interface {
	Indicator(ctx context.Context, frame hostproto.Indicator) error
}

type Sync struct {
	// mu orders whole refreshes, publish included, so a slow publish cannot
	// land after a newer frame
	mu sync.Mutex

	doc       *hostdoc.Document
	badges    *Badges
	catalog   *msgcat.Catalog
	publisher IndicatorPublisher
	logger    *zap.Logger
	size      int
}

func New(doc *hostdoc.Document, publisher IndicatorPublisher, catalog *msgcat.Catalog, logger *zap.Logger) *Sync {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sync{
		doc:       doc,
		badges:    NewBadges(),
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
		size:      DefaultBadgeSize,
	}
}

// Placement is where the indicator goes for one active move.
type Placement struct {
	Category domain.Category
	Square   string
	Ply      int
	Black    bool // board seen from black
}

// Refresh clears the indicator and draws a new one for the active move when
// it is graded or a book move. An unresolvable square only skips drawing.
func (s *Sync) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var frame hostproto.Indicator
	var resolveErr error
	err := s.doc.Update(func(root *html.Node) error {
		for _, old := range hostdoc.SelIndicator.MatchAll(root) {
			hostdoc.Detach(old)
		}
		p, ok, err := Locate(root)
		if err != nil {
			resolveErr = err
			frame = hostproto.Indicator{Clear: true}
			return nil
		}
		if !ok {
			frame = hostproto.Indicator{Clear: true}
			return nil
		}
		node, err := s.indicatorNode(p)
		if err != nil {
			return err
		}
		if parent := boardParent(root); parent != nil {
			parent.AppendChild(node)
		}
		out, err := hostdoc.Render(node)
		if err != nil {
			return err
		}
		frame = hostproto.Indicator{HTML: out, Square: p.Square}
		return nil
	})
	if err != nil {
		return fmt.Errorf("refresh indicator: %w", err)
	}
	if resolveErr != nil {
		s.logger.Info("indicator_skipped", zap.Error(resolveErr))
	} else if frame.Square != "" {
		s.logger.Debug("indicator_placed", zap.String("square", frame.Square))
	}
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Indicator(ctx, frame)
}

// Locate finds the active move and where its indicator belongs. ok is false
// when there is nothing to draw.
func Locate(root *html.Node) (Placement, bool, error) {
	container := hostdoc.MoveContainer(root)
	if container == nil {
		return Placement{}, false, nil
	}
	played := hostdoc.PlayedMoves(container)
	active := hostdoc.SelActiveMove.MatchFirst(container)
	ply := hostdoc.IndexOf(played, active)
	if active == nil || ply < 0 {
		return Placement{}, false, nil
	}
	cat, ok := categoryOf(active)
	if !ok {
		return Placement{}, false, nil
	}

	color := domain.ColorOf(ply)
	if v, ok := hostdoc.Attr(active, hostdoc.AttrMoveColor); ok {
		if c, ok := domain.ParseColor(v); ok {
			color = c
		}
	}

	text := san.Clean(hostdoc.Text(hostdoc.SelSAN.MatchFirst(active)))
	square := san.Destination(text, color)
	if square == "" {
		history := make([]string, 0, ply+1)
		for _, mv := range played[:ply+1] {
			history = append(history, san.Clean(hostdoc.Text(hostdoc.SelSAN.MatchFirst(mv))))
		}
		sq, err := replayDestination(history)
		if err != nil {
			return Placement{}, false, fmt.Errorf("%w: ply %d %q: %w", ErrSquareUnresolved, ply, text, err)
		}
		square = sq
	}

	return Placement{
		Category: cat,
		Square:   square,
		Ply:      ply,
		Black:    blackOrientation(root),
	}, true, nil
}

// categoryOf reads the marks left by the annotation pass.
func categoryOf(mv *html.Node) (domain.Category, bool) {
	for _, cat := range []domain.Category{domain.CategoryBrilliant, domain.CategoryExcellent, domain.CategoryGood} {
		if hostdoc.HasClass(mv, cat.Class()) {
			return cat, true
		}
	}
	if v, _ := hostdoc.Attr(mv, hostdoc.AttrIsBook); v == "true" {
		return domain.CategoryBook, true
	}
	return "", false
}

func blackOrientation(root *html.Node) bool {
	wrap := hostdoc.SelBoardWrap.MatchFirst(root)
	return wrap != nil && hostdoc.HasClass(wrap, "orientation-black")
}

func boardParent(root *html.Node) *html.Node {
	if c := hostdoc.SelBoardContainer.MatchFirst(root); c != nil {
		return c
	}
	return hostdoc.SelBoard.MatchFirst(root)
}

// Offsets returns the left/top percentages of a square's top-left corner.
func Offsets(square string, black bool) (left, top float64) {
	file := float64(square[0] - 'a')
	rank := float64(square[1] - '0')
	if black {
		return (7 - file) * 12.5, (rank - 1) * 12.5
	}
	return file * 12.5, (8 - rank) * 12.5
}

func (s *Sync) indicatorNode(p Placement) (*html.Node, error) {
	uri, err := s.badges.DataURI(p.Category, s.size)
	if err != nil {
		return nil, err
	}
	left, top := Offsets(p.Square, p.Black)
	div := hostdoc.Element("div",
		html.Attribute{Key: "class", Val: hostdoc.ClassIndicator + " dm-" + string(p.Category)},
		html.Attribute{Key: "style", Val: "left: " + percent(left) + "; top: " + percent(top)},
		html.Attribute{Key: "data-square", Val: p.Square},
	)
	title := p.Category.Title()
	if title == "" {
		title = s.catalog.SummaryLabel(p.Category)
	}
	alt := title
	if s.catalog != nil {
		if out, err := s.catalog.Render("indicator.alt", map[string]string{"Title": title, "Square": p.Square}); err == nil {
			alt = out
		}
	}
	img := hostdoc.Element("img",
		html.Attribute{Key: "src", Val: uri},
		html.Attribute{Key: "alt", Val: alt},
	)
	div.AppendChild(img)
	return div, nil
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// Package annotate writes classification results into the host document and
// removes what earlier passes wrote.
package annotate

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/park285/detailed-moves/internal/domain"
	"github.com/park285/detailed-moves/internal/hostdoc"
	"github.com/park285/detailed-moves/internal/msgcat"
	"github.com/park285/detailed-moves/internal/san"
)

const (
	SummaryWaitTimeout  = 5000 * time.Millisecond
	SummaryPollInterval = 250 * time.Millisecond
)

type Writer struct {
	catalog *msgcat.Catalog
	logger  *zap.Logger

	waitTimeout  time.Duration
	pollInterval time.Duration
}

type Option func(*Writer)

// WithSummaryWait changes how long WaitSummary polls.
func WithSummaryWait(timeout, interval time.Duration) Option {
	return func(w *Writer) {
		if timeout > 0 {
			w.waitTimeout = timeout
		}
		if interval > 0 {
			w.pollInterval = interval
		}
	}
}

func New(catalog *msgcat.Catalog, logger *zap.Logger, opts ...Option) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Writer{
		catalog:      catalog,
		logger:       logger,
		waitTimeout:  SummaryWaitTimeout,
		pollInterval: SummaryPollInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Clean strips every trace of earlier passes. The host's own annotations and
// book icons stay.
func (w *Writer) Clean(root *html.Node) {
	if container := hostdoc.MoveContainer(root); container != nil {
		for _, mv := range hostdoc.SelMove.MatchAll(container) {
			cleanMove(mv)
		}
	}
	for _, summary := range hostdoc.SelSummary.MatchAll(root) {
		for _, stat := range hostdoc.SelCustomStat.MatchAll(summary) {
			hostdoc.Detach(stat)
		}
	}
}

func cleanMove(mv *html.Node) {
	hostdoc.RemoveClasses(mv, domain.TierClasses()...)
	hostdoc.RemoveAttr(mv, hostdoc.AttrIsBook)
	hostdoc.RemoveAttr(mv, hostdoc.AttrMoveColor)

	ours := domain.GlyphTitles()
	for _, g := range hostdoc.SelGlyph.MatchAll(mv) {
		title, _ := hostdoc.Attr(g, hostdoc.AttrTitle)
		if containsExact(ours, title) {
			hostdoc.Detach(g)
		}
	}

	if sanNode := hostdoc.SelSAN.MatchFirst(mv); sanNode != nil {
		for _, wrap := range hostdoc.SelBookWrapper.MatchAll(sanNode) {
			hostdoc.Detach(wrap)
		}
		for _, legacy := range hostdoc.SelLegacySpan.MatchAll(sanNode) {
			if legacy.Parent == nil {
				continue
			}
			legacy.Parent.InsertBefore(hostdoc.TextNode(san.Clean(hostdoc.Text(legacy))), legacy)
			hostdoc.Detach(legacy)
		}
		stripTrailingResidue(sanNode)
	}

	if !hasNativeGlyph(mv) {
		hostdoc.RemoveAttr(mv, hostdoc.AttrTitle)
	}
}

// stripTrailingResidue cleans the last text node of the notation.
func stripTrailingResidue(sanNode *html.Node) {
	for c := sanNode.LastChild; c != nil; c = c.PrevSibling {
		if c.Type != html.TextNode {
			continue
		}
		if strings.TrimSpace(c.Data) == "" {
			continue
		}
		if cleaned := san.Clean(c.Data); cleaned != strings.TrimSpace(c.Data) {
			c.Data = cleaned
		}
		return
	}
}

func hasNativeGlyph(mv *html.Node) bool {
	for _, g := range hostdoc.SelGlyph.MatchAll(mv) {
		title, _ := hostdoc.Attr(g, hostdoc.AttrTitle)
		for _, native := range hostdoc.NativeGlyphTitles {
			if strings.Contains(title, native) {
				return true
			}
		}
	}
	return false
}

// ApplyMoves marks each record's element. Attributes are always written in
// the same order so a cleaned element ends up byte-identical to the last pass.
func (w *Writer) ApplyMoves(records []domain.MoveRecord) {
	for _, rec := range records {
		mv := rec.Element
		if mv == nil {
			continue
		}
		hostdoc.SetAttr(mv, hostdoc.AttrMoveColor, string(rec.Color))
		sanNode := hostdoc.SelSAN.MatchFirst(mv)

		if rec.IsBook && !rec.HostBook && rec.OpeningName != "" && sanNode != nil {
			if hostdoc.SelBookWrapper.MatchFirst(sanNode) == nil {
				sanNode.AppendChild(bookWrapper(rec.OpeningName))
			}
			hostdoc.SetAttr(mv, hostdoc.AttrTitle, rec.OpeningName)
		}
		if rec.IsBook {
			hostdoc.SetAttr(mv, hostdoc.AttrIsBook, "true")
		}

		cat, ok := rec.Tier.Category()
		if !ok || sanNode == nil {
			continue
		}
		hostdoc.AddClass(mv, cat.Class())
		glyph := hostdoc.Element(hostdoc.TagGlyph, html.Attribute{Key: hostdoc.AttrTitle, Val: cat.Title()})
		glyph.AppendChild(hostdoc.TextNode(cat.Symbol()))
		hostdoc.InsertAfter(sanNode, glyph)
	}
}

func bookWrapper(name string) *html.Node {
	wrap := hostdoc.Element("span", html.Attribute{Key: "class", Val: hostdoc.ClassBookWrapper})
	icon := hostdoc.Element("i",
		html.Attribute{Key: "class", Val: "fas fa-book"},
		html.Attribute{Key: hostdoc.AttrTitle, Val: name},
	)
	wrap.AppendChild(icon)
	return wrap
}

func containsExact(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

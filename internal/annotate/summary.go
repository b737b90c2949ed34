package annotate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/park285/detailed-moves/internal/domain"
	"github.com/park285/detailed-moves/internal/hostdoc"
)

var ErrSummaryNotFound = errors.New("summary panel not found")

// WaitSummary polls the document until the summary panel shows up. The
// document lock is only held for each probe.
func (w *Writer) WaitSummary(ctx context.Context, doc *hostdoc.Document) error {
	present := func() bool {
		found := false
		doc.Read(func(root *html.Node) {
			found = hostdoc.SelSummary.MatchFirst(root) != nil
		})
		return found
	}
	if present() {
		return nil
	}

	deadline := time.NewTimer(w.waitTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(w.pollInterval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrSummaryNotFound, ctx.Err())
		case <-deadline.C:
			return fmt.Errorf("%w: waited %s", ErrSummaryNotFound, w.waitTimeout)
		case <-tick.C:
			if present() {
				return nil
			}
		}
	}
}

// SummarySides returns the white and black sub-panels.
func SummarySides(root *html.Node) (summary, white, black *html.Node, err error) {
	summary = hostdoc.SelSummary.MatchFirst(root)
	if summary == nil {
		return nil, nil, nil, ErrSummaryNotFound
	}
	sides := hostdoc.SelSummarySide.MatchAll(summary)
	if len(sides) < 2 {
		return nil, nil, nil, fmt.Errorf("%w: %d sides", ErrSummaryNotFound, len(sides))
	}
	for _, side := range sides {
		switch {
		case white == nil && hostdoc.SelWhiteIcon.MatchFirst(side) != nil:
			white = side
		case black == nil && hostdoc.SelBlackIcon.MatchFirst(side) != nil:
			black = side
		}
	}
	if white == nil || black == nil {
		return nil, nil, nil, fmt.Errorf("%w: sides not identifiable", ErrSummaryNotFound)
	}
	return summary, white, black, nil
}

// ApplySummary writes one stat entry per color and category, replacing any
// written before.
func (w *Writer) ApplySummary(root *html.Node, tally domain.Tally) error {
	summary, white, black, err := SummarySides(root)
	if err != nil {
		return err
	}
	for _, stat := range hostdoc.SelCustomStat.MatchAll(summary) {
		hostdoc.Detach(stat)
	}
	for _, side := range []struct {
		node  *html.Node
		color domain.Color
	}{{white, domain.White}, {black, domain.Black}} {
		anchor := summaryAnchor(side.node)
		for _, cat := range domain.Categories {
			stat := w.statEntry(side.color, cat, tally.Count(side.color, cat))
			if anchor != nil && anchor.Parent != nil {
				anchor.Parent.InsertBefore(stat, anchor)
			} else {
				side.node.AppendChild(stat)
			}
		}
	}
	return nil
}

func (w *Writer) statEntry(color domain.Color, cat domain.Category, count int) *html.Node {
	style := "cursor: text"
	if count > 0 {
		style = "cursor: pointer; color: " + cat.Color()
	}
	div := hostdoc.Element("div",
		html.Attribute{Key: "class", Val: "advice-summary__error symbol " + cat.Class() + " " + hostdoc.ClassCustomStat},
		html.Attribute{Key: "style", Val: style},
		html.Attribute{Key: hostdoc.AttrColor, Val: string(color)},
		html.Attribute{Key: hostdoc.AttrSymbol, Val: cat.Symbol()},
	)
	strong := hostdoc.Element("strong")
	strong.AppendChild(hostdoc.TextNode(strconv.Itoa(count)))
	div.AppendChild(strong)
	div.AppendChild(hostdoc.TextNode(" " + w.catalog.SummaryLabel(cat)))
	return div
}

// summaryAnchor finds the first host statistic of a side: by label text
// first, then by the acpl/accuracy markers.
func summaryAnchor(side *html.Node) *html.Node {
	// term priority wins over document order, so a player name holding
	// "blunder" does not beat a later "1 inaccuracy" row
	for _, term := range hostdoc.SummaryAnchorTerms {
		for _, child := range hostdoc.ChildElements(side) {
			if hostdoc.HasClass(child, hostdoc.ClassCustomStat) {
				continue
			}
			if strings.Contains(strings.ToLower(hostdoc.Text(child)), term) {
				return child
			}
		}
	}
	return hostdoc.SelSummaryAnchors.MatchFirst(side)
}

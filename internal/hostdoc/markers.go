package hostdoc

import (
	"github.com/andybalholm/cascadia"
)

// Structural markers of the analysis and study pages.
const (
	LoaderID = "acpl-chart-container-loader"

	TagMove  = "move"
	TagSAN   = "san"
	TagEval  = "eval"
	TagGlyph = "glyph"

	ClassEmpty       = "empty"
	ClassActive      = "active"
	ClassBookWrapper = "book-icon-wrapper"
	ClassCustomStat  = "custom-move-stat"
	ClassIndicator   = "dm-board-indicator"

	AttrMoveColor = "data-move-color"
	AttrIsBook    = "data-is-book"
	AttrColor     = "data-color"
	AttrSymbol    = "data-symbol"
	AttrTitle     = "title"
)

// MoveContainerSelectors are probed in order; the first one holding a move wins.
var MoveContainerSelectors = []string{
	".analyse__moves .tview2-column",
	".gamebook .tview2-column",
	"div.tview2.tview2-column",
}

// NativeGlyphTitles mark the host's own annotations, which are never removed.
var NativeGlyphTitles = []string{"Mistake", "Blunder", "Inaccuracy"}

// SummaryAnchorTerms locate the first host statistic in a summary side. They
// cover the English and Spanish interfaces and are matched case-insensitively.
var SummaryAnchorTerms = []string{
	"imprecisiones", "imprecisión", "inaccuracies", "inaccuracy",
	"error", "errores", "mistake", "mistakes",
	"errores graves", "blunder", "blunders",
	"pérdida promedio", "average centipawn loss",
	"precisión", "accuracy",
}

var (
	SelMove           = cascadia.MustCompile("move")
	SelPlayedMove     = cascadia.MustCompile("move:not(.empty)")
	SelActiveMove     = cascadia.MustCompile("move.active")
	SelSAN            = cascadia.MustCompile("san")
	SelEval           = cascadia.MustCompile("eval")
	SelGlyph          = cascadia.MustCompile("glyph")
	SelBookIcon       = cascadia.MustCompile("i.fa-book")
	SelBookWrapper    = cascadia.MustCompile("span.book-icon-wrapper")
	SelLegacySpan     = cascadia.MustCompile(`span[style^="color"]`)
	SelLoader         = cascadia.MustCompile("#" + LoaderID)
	SelEvalPresent    = cascadia.MustCompile("move:not(.empty) eval")
	SelSummary        = cascadia.MustCompile(".advice-summary")
	SelSummarySide    = cascadia.MustCompile(".advice-summary__side")
	SelWhiteIcon      = cascadia.MustCompile(".color-icon.white")
	SelBlackIcon      = cascadia.MustCompile(".color-icon.black")
	SelCustomStat     = cascadia.MustCompile(".custom-move-stat")
	SelSummaryAnchors = cascadia.MustCompile(".advice-summary__acpl, .advice-summary__accuracy")
	SelIndicator      = cascadia.MustCompile(".dm-board-indicator")
	SelBoardWrap      = cascadia.MustCompile(".cg-wrap")
	SelBoardContainer = cascadia.MustCompile("cg-container")
	SelBoard          = cascadia.MustCompile("cg-board")
)

var containerSelectors = func() []cascadia.Selector {
	out := make([]cascadia.Selector, 0, len(MoveContainerSelectors))
	for _, s := range MoveContainerSelectors {
		out = append(out, cascadia.MustCompile(s))
	}
	return out
}()

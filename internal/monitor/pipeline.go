package monitor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/park285/detailed-moves/internal/annotate"
	"github.com/park285/detailed-moves/internal/classify"
	"github.com/park285/detailed-moves/internal/extract"
	"github.com/park285/detailed-moves/internal/hostdoc"
	"github.com/park285/detailed-moves/internal/openingbook"
	"github.com/park285/detailed-moves/pkg/hostproto"
)

// Book hands out the opening index, loading it on first use.
type Book interface {
	Index(ctx context.Context) *openingbook.Index
}

type RenderPublisher interface {
	Render(ctx context.Context, target, html string) error
}

type IndicatorRefresher interface {
	Refresh(ctx context.Context) error
}

// Pipeline is one annotation pass over the mirror: clean, extract, classify,
// write the moves, wait for the summary, write the summary, then publish.
type Pipeline struct {
	doc       *hostdoc.Document
	writer    *annotate.Writer
	book      Book
	publisher RenderPublisher
	indicator IndicatorRefresher
	logger    *zap.Logger
}

func NewPipeline(doc *hostdoc.Document, writer *annotate.Writer, book Book, publisher RenderPublisher, indicator IndicatorRefresher, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		doc:       doc,
		writer:    writer,
		book:      book,
		publisher: publisher,
		indicator: indicator,
		logger:    logger,
	}
}

func (p *Pipeline) Run(ctx context.Context, passID string) error {
	log := p.logger.With(zap.String("pass_id", passID))

	var lookup classify.Lookup = openingbook.Empty()
	if p.book != nil {
		lookup = p.book.Index(ctx)
	}

	var res classify.Result
	var movesHTML string
	err := p.doc.Update(func(root *html.Node) error {
		p.writer.Clean(root)
		records, err := extract.Moves(root, log)
		if err != nil {
			return err
		}
		res = classify.Run(records, lookup)
		p.writer.ApplyMoves(res.Moves)
		movesHTML, err = hostdoc.Render(hostdoc.MoveContainer(root))
		return err
	})
	if err != nil {
		return fmt.Errorf("annotate moves: %w", err)
	}
	log.Info("moves_annotated",
		zap.Int("moves", len(res.Moves)),
		zap.Int("white", res.Tally.White.Total()),
		zap.Int("black", res.Tally.Black.Total()),
	)

	// moves stay annotated even when the summary never shows up; the pass
	// still counts as failed
	var errs []error
	var summaryHTML string
	if err := p.writer.WaitSummary(ctx, p.doc); err != nil {
		errs = append(errs, fmt.Errorf("annotate summary: %w", err))
	} else {
		err = p.doc.Update(func(root *html.Node) error {
			if err := p.writer.ApplySummary(root, res.Tally); err != nil {
				return err
			}
			var rerr error
			summaryHTML, rerr = hostdoc.Render(hostdoc.SelSummary.MatchFirst(root))
			return rerr
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("annotate summary: %w", err))
		}
	}

	if p.publisher != nil {
		if err := p.publisher.Render(ctx, hostproto.TargetMoves, movesHTML); err != nil {
			errs = append(errs, fmt.Errorf("publish moves: %w", err))
		}
		if summaryHTML != "" {
			if err := p.publisher.Render(ctx, hostproto.TargetSummary, summaryHTML); err != nil {
				errs = append(errs, fmt.Errorf("publish summary: %w", err))
			}
		}
	}
	if p.indicator != nil {
		if err := p.indicator.Refresh(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

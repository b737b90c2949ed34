package openingbook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrLoad marks a table that could not be obtained; the index is empty then.
var ErrLoad = errors.New("opening table load failed")

type Source interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Loader resolves the index once per process. Callers arriving while the
// first load runs block until it ends; a failure is never retried.
type Loader struct {
	url    string
	source Source
	cache  Cache
	logger *zap.Logger

	once sync.Once
	idx  *Index
	err  error
}

type LoaderOption func(*Loader)

func WithCache(c Cache) LoaderOption {
	return func(l *Loader) { l.cache = c }
}

func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewLoader(url string, source Source, opts ...LoaderOption) *Loader {
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	l := &Loader{url: url, source: source, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Index returns the loaded index, or an empty one when loading failed.
func (l *Loader) Index(ctx context.Context) *Index {
	l.once.Do(func() {
		l.idx, l.err = l.load(ctx)
		if l.err != nil {
			l.logger.Warn("opening_table_unavailable", zap.String("url", l.url), zap.Error(l.err))
			l.idx = Empty()
			return
		}
		l.logger.Info("opening_table_loaded", zap.Int("entries", l.idx.Len()))
	})
	return l.idx
}

// Err reports the outcome of the load, nil before it happened.
func (l *Loader) Err() error { return l.err }

func (l *Loader) load(ctx context.Context) (*Index, error) {
	if l.cache != nil {
		raw, ok, err := l.cache.Get(ctx)
		switch {
		case err != nil:
			l.logger.Warn("opening_cache_read_failed", zap.Error(err))
		case ok:
			entries, perr := ParseTable(raw)
			if perr == nil {
				l.logger.Debug("opening_cache_hit", zap.Int("bytes", len(raw)))
				return NewIndex(entries), nil
			}
			l.logger.Warn("opening_cache_corrupt", zap.Error(perr))
		}
	}

	if l.source == nil {
		return nil, fmt.Errorf("%w: no source", ErrLoad)
	}
	raw, err := l.source.Fetch(ctx, l.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	entries, err := ParseTable(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if l.cache != nil {
		if err := l.cache.Set(ctx, raw); err != nil {
			l.logger.Warn("opening_cache_write_failed", zap.Error(err))
		}
	}
	return NewIndex(entries), nil
}

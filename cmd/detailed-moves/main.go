package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/detailed-moves/internal/annotate"
	"github.com/park285/detailed-moves/internal/boardsync"
	"github.com/park285/detailed-moves/internal/bridge"
	appcfg "github.com/park285/detailed-moves/internal/config"
	"github.com/park285/detailed-moves/internal/domain"
	"github.com/park285/detailed-moves/internal/hostdoc"
	"github.com/park285/detailed-moves/internal/monitor"
	"github.com/park285/detailed-moves/internal/msgcat"
	"github.com/park285/detailed-moves/internal/navigate"
	"github.com/park285/detailed-moves/internal/obslog"
	"github.com/park285/detailed-moves/internal/openingbook"
	"github.com/park285/detailed-moves/pkg/hostproto"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()
	logger := obslog.L()

	catalog, err := msgcat.New(cfg.Locale, cfg.MessagesDir)
	if err != nil {
		logger.Fatal("catalog_init_failed", zap.Error(err))
	}

	// Opening table: fetched once on the first pass, optionally cached in Redis
	loaderOpts := []openingbook.LoaderOption{openingbook.WithLogger(obslog.Named("openingbook"))}
	if cfg.RedisURL != "" {
		cache, err := openingbook.NewRedisCache(cfg.RedisURL, cfg.EcoCacheTTL)
		if err != nil {
			logger.Warn("opening_cache_disabled", zap.Error(err))
		} else {
			defer cache.Close()
			loaderOpts = append(loaderOpts, openingbook.WithCache(cache))
		}
	}
	fetcher := openingbook.NewFetcher(openingbook.WithTimeout(cfg.EcoTimeout))
	book := openingbook.NewLoader(cfg.EcoURL, fetcher, loaderOpts...)

	ws := bridge.NewClient(cfg.BridgeWSURL, cfg.BridgeReconnect, obslog.Named("bridge"))
	if cfg.BridgeToken != "" {
		ws.SetHeaderProvider(func() map[string]string {
			return map[string]string{"Authorization": "Bearer " + cfg.BridgeToken}
		})
	}
	ws.OnStateChange(func(state bridge.State) {
		logger.Info("bridge_state", zap.String("state", string(state)))
	})

	doc := hostdoc.New()
	publisher := bridge.NewPublisher(ws)
	writer := annotate.New(catalog, obslog.Named("annotate"))
	indicator := boardsync.New(doc, publisher, catalog, obslog.Named("boardsync"))
	dispatcher := navigate.New(doc, bridge.NewActivator(ws), obslog.Named("navigate"))
	pipeline := monitor.NewPipeline(doc, writer, book, publisher, indicator, obslog.Named("pipeline"))
	mon := monitor.New(doc, pipeline, obslog.Named("monitor"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := &frameHandler{ctx: ctx, doc: doc, monitor: mon, indicator: indicator, dispatcher: dispatcher, logger: logger}
	ws.OnFrame(h.handle)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		// reconnect keeps trying in the background
		logger.Warn("bridge_connect_failed", zap.Error(err))
	}
	cancel()

	monDone := make(chan struct{})
	go func() {
		defer close(monDone)
		_ = mon.Run(ctx)
	}()

	logger.Info("started", zap.String("locale", catalog.Locale()), zap.String("bridge", cfg.BridgeWSURL))
	<-ctx.Done()
	logger.Info("shutting_down")

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	_ = ws.Close(closeCtx)
	<-monDone
}

type frameHandler struct {
	ctx        context.Context
	doc        *hostdoc.Document
	monitor    *monitor.Monitor
	indicator  *boardsync.Sync
	dispatcher *navigate.Dispatcher
	logger     *zap.Logger
}

func (h *frameHandler) handle(frame hostproto.Envelope) {
	switch frame.Type {
	case hostproto.KindSnapshot:
		var snap hostproto.Snapshot
		if err := frame.Decode(&snap); err != nil {
			h.logger.Warn("frame_decode_failed", zap.Error(err))
			return
		}
		h.replace(snap.HTML)

	case hostproto.KindMutations:
		var batch hostproto.Mutations
		if err := frame.Decode(&batch); err != nil {
			h.logger.Warn("frame_decode_failed", zap.Error(err))
			return
		}
		if batch.HTML != "" {
			h.replace(batch.HTML)
		}
		h.monitor.HandleMutations(batch.Records)

	case hostproto.KindActive:
		var active hostproto.Active
		if err := frame.Decode(&active); err != nil {
			h.logger.Warn("frame_decode_failed", zap.Error(err))
			return
		}
		if active.HTML != "" {
			h.replace(active.HTML)
		}
		// avoid blocking the read loop
		go func() {
			if err := h.indicator.Refresh(h.ctx); err != nil {
				h.logger.Warn("indicator_refresh_failed", zap.Error(err))
			}
		}()

	case hostproto.KindClick:
		var click hostproto.Click
		if err := frame.Decode(&click); err != nil {
			h.logger.Warn("frame_decode_failed", zap.Error(err))
			return
		}
		color, ok := domain.ParseColor(strings.ToLower(click.Color))
		if !ok {
			h.logger.Warn("click_ignored", zap.String("reason", "color"), zap.String("color", click.Color))
			return
		}
		cat, ok := domain.ParseCategory(strings.ToLower(click.Category))
		if !ok {
			h.logger.Warn("click_ignored", zap.String("reason", "category"), zap.String("category", click.Category))
			return
		}
		go func() {
			if err := h.dispatcher.Dispatch(h.ctx, color, cat); err != nil {
				h.logger.Warn("navigate_failed", zap.Error(err))
			}
		}()

	default:
		h.logger.Debug("frame_ignored", zap.String("type", string(frame.Type)))
	}
}

func (h *frameHandler) replace(page string) {
	if err := h.doc.Replace(strings.NewReader(page)); err != nil {
		h.logger.Warn("snapshot_rejected", zap.Error(err))
	}
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ritzau/ontology-explorer/pkg/config"
	"github.com/ritzau/ontology-explorer/pkg/ingest"
	"github.com/ritzau/ontology-explorer/pkg/logging"
	"github.com/ritzau/ontology-explorer/pkg/metrics"
	"github.com/ritzau/ontology-explorer/pkg/pubsub"
	"github.com/ritzau/ontology-explorer/pkg/session"
	"github.com/ritzau/ontology-explorer/pkg/watcher"
	"github.com/ritzau/ontology-explorer/pkg/web"
)

const (
	reloadQuietPeriod = 300 * time.Millisecond
	reloadMaxWait     = 2 * time.Second
)

func serve(ctx context.Context, cfg *config.Config) error {
	pub := pubsub.NewExplorerPublisher()
	m := metrics.NewCollector()
	sess := session.New(session.WithPublisher(pub), session.WithMetrics(m))
	server := web.NewServer(sess, ingest.NewLoader(), cfg.Source, pub, m)

	if _, err := server.Reload(ctx); err != nil {
		return err
	}
	if cfg.Query != "" {
		sess.Filter(cfg.Query)
	}

	if cfg.Watch {
		if cfg.Source == "" {
			logging.Warn("--watch ignored: no source file configured")
		} else if err := watchSource(ctx, cfg.Source, server); err != nil {
			return err
		}
	}

	return server.Start(ctx, cfg.Port)
}

// watchSource reloads the forest wholesale whenever the source settles after
// a change. Failed reloads keep the last good forest.
func watchSource(ctx context.Context, path string, server *web.Server) error {
	fw, err := watcher.NewFileWatcher(path)
	if err != nil {
		return err
	}
	if err := fw.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	debouncer := watcher.NewDebouncer(fw.Events(), reloadQuietPeriod, reloadMaxWait)
	debouncer.Start(ctx)

	go func() {
		for event := range debouncer.Output() {
			analysis := watcher.AnalyzeChanges(event)
			switch {
			case analysis.SourceGone:
				logging.Warn("ontology source removed, keeping last forest", "path", path)
			case analysis.NeedReload:
				logging.Info("ontology source changed, reloading", "path", path, "files", len(analysis.ChangedFiles))
				if _, err := server.Reload(ctx); err != nil {
					logging.Warn("reload failed, keeping last forest", "error", err)
				}
			}
		}
	}()
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/taigrr/diorama/internal/config"
	"github.com/taigrr/diorama/pkg/render"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 150 * time.Millisecond

// reload is the outcome of re-reading a watched scene file.
type reload struct {
	src      *sceneSource
	renderer *render.SceneRenderer
	err      error
}

// sceneWatcher re-parses a scene file whenever it changes on disk.
type sceneWatcher struct {
	w       *fsnotify.Watcher
	reloads chan reload
}

// watchScene watches the directory holding src so that editors which save by
// rename are seen too. Results arrive on the reloads channel; failures are
// logged and the previous scene stays in place.
func watchScene(ctx context.Context, src *sceneSource, cfg config.Config, camName string, log *slog.Logger) (*sceneWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(src.dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", src.dir, err)
	}

	sw := &sceneWatcher{w: w, reloads: make(chan reload, 1)}
	go sw.loop(ctx, filepath.Clean(src.path), cfg, camName, log)
	log.Info("watching scene", "path", src.path)
	return sw, nil
}

func (sw *sceneWatcher) loop(ctx context.Context, path string, cfg config.Config, camName string, log *slog.Logger) {
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-sw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(reloadDelay)
			}

		case <-pending:
			pending = nil
			rl := rebuild(path, cfg, camName, log)
			select {
			case sw.reloads <- rl:
			case <-ctx.Done():
				return
			}

		case err, ok := <-sw.w.Errors:
			if !ok {
				return
			}
			log.Error("watch", "err", err)
		}
	}
}

// rebuild parses path and builds a renderer for it.
func rebuild(path string, cfg config.Config, camName string, log *slog.Logger) reload {
	src, err := loadScene(path)
	if err != nil {
		log.Error("reload failed", "path", path, "err", err)
		return reload{err: err}
	}
	r, err := newRenderer(src, cfg, camName, log)
	if err != nil {
		log.Error("reload failed", "path", path, "err", err)
		return reload{err: err}
	}
	log.Info("reloaded scene", "path", path, "objects", len(src.graph.Objects()))
	return reload{src: src, renderer: r}
}

// Close stops watching.
func (sw *sceneWatcher) Close() error {
	return sw.w.Close()
}

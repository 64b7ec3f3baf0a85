// Package watcher auto-ingests documents dropped into a watched directory.
// It is a driving adapter: filesystem events are turned into Ingestor and
// DocumentManager calls.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Mettice/caresync/internal/core/domain"
	"github.com/Mettice/caresync/internal/core/ports/driving"
	"github.com/Mettice/caresync/internal/logger"
)

// defaultDebounce coalesces the event bursts editors and copy tools
// produce for a single file write.
const defaultDebounce = 500 * time.Millisecond

// Watcher ingests supported files created or modified in a directory and
// deletes the corresponding document when a file is removed.
type Watcher struct {
	ingestor  driving.Ingestor
	documents driving.DocumentManager
	category  string
	debounce  time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithCategory assigns a category to every auto-ingested document.
func WithCategory(category string) Option {
	return func(w *Watcher) {
		w.category = category
	}
}

// WithDebounce overrides the event debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a directory watcher.
func New(ingestor driving.Ingestor, documents driving.DocumentManager, opts ...Option) (*Watcher, error) {
	if ingestor == nil {
		return nil, errors.New("watcher: ingestor is required")
	}
	if documents == nil {
		return nil, errors.New("watcher: document manager is required")
	}

	w := &Watcher{
		ingestor:  ingestor,
		documents: documents,
		debounce:  defaultDebounce,
		timers:    make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch monitors dir until the context is cancelled.
// Existing files are not ingested; only new events trigger work.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close() //nolint:errcheck

	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.Info("Watching %s for documents", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !isSupported(event.Name) {
				continue
			}

			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				w.scheduleIngest(ctx, event.Name)
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.removeDocument(ctx, event.Name)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// scheduleIngest debounces per path, then ingests once the file settles.
func (w *Watcher) scheduleIngest(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		w.ingest(ctx, path)
	})
}

// ingest replaces any prior document for the same filename, then ingests
// the file, so a rewritten file never leaves a stale duplicate behind.
func (w *Watcher) ingest(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}

	w.deleteByFilename(ctx, filepath.Base(path))

	receipt, err := w.ingestor.IngestFile(ctx, path, w.category)
	if err != nil {
		logger.Warn("Auto-ingest of %s failed: %v", path, err)
		return
	}
	logger.Info("Auto-ingested %s as %s (%d chunks)", path, receipt.DocumentID, receipt.ChunkCount)
}

// removeDocument deletes the documents ingested from a removed file.
func (w *Watcher) removeDocument(ctx context.Context, path string) {
	w.mu.Lock()
	if timer, ok := w.timers[path]; ok {
		timer.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	removed := w.deleteByFilename(ctx, filepath.Base(path))
	if removed > 0 {
		logger.Info("Removed %s from index (%d vector records)", filepath.Base(path), removed)
	}
}

// deleteByFilename deletes every document whose filename matches.
// Returns the number of vector records removed.
func (w *Watcher) deleteByFilename(ctx context.Context, filename string) int {
	docs, err := w.documents.List(ctx)
	if err != nil {
		logger.Warn("List documents failed: %v", err)
		return 0
	}

	removed := 0
	for i := range docs {
		if docs[i].Filename != filename {
			continue
		}
		n, err := w.documents.Delete(ctx, docs[i].ID)
		if err != nil {
			logger.Warn("Delete document %s failed: %v", docs[i].ID, err)
			continue
		}
		removed += n
	}
	return removed
}

// isSupported filters events to the ingestable formats.
func isSupported(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	_, ok := domain.FormatFromFilename(base)
	return ok
}

package dataset

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// LoadFile reads the dataset at path into s.
func LoadFile(s *Store, path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("read dataset %s: %w", path, err)
		s.recordError(SourceFile, err)
		return nil, err
	}
	return s.Load(raw, SourceFile)
}

// Watcher reloads a dataset file whenever its content changes.
type Watcher struct {
	store    *Store
	path     string
	interval time.Duration
	logger   *slog.Logger
}

// NewWatcher creates a watcher polling path every interval.
func NewWatcher(s *Store, path string, interval time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{store: s, path: path, interval: interval, logger: logger}
}

// Run polls until ctx is cancelled. Read and parse failures are logged and the
// active snapshot keeps serving.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("dataset watcher started", "path", w.path, "interval", w.interval)
	ticker := clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("dataset watcher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	raw, err := os.ReadFile(w.path)
	if err != nil {
		w.store.recordError(SourceFile, fmt.Errorf("read dataset %s: %w", w.path, err))
		return
	}
	if cur := w.store.Current(); cur != nil && bytes.Equal(cur.Raw, raw) {
		return
	}
	if _, err := w.store.Load(raw, SourceFile); err != nil {
		w.logger.Warn("dataset reload failed, keeping previous snapshot", "path", w.path)
	}
}

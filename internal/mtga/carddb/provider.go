package carddb

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 500 * time.Millisecond

// Provider hands out the current Snapshot and swaps in a fresh one when
// the backing bulk-data file changes. Callers take a snapshot once per
// request and pass it down; a reload never mutates a snapshot in use.
type Provider struct {
	path    string
	logger  *zap.Logger
	current atomic.Pointer[Snapshot]
}

// NewProvider creates a provider for the bulk-data file at path. It
// starts with an empty snapshot until Reload succeeds.
func NewProvider(path string, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Provider{path: path, logger: logger}
	p.current.Store(NewSnapshot(nil, "empty"))
	return p
}

// Snapshot returns the current snapshot. It is never nil.
func (p *Provider) Snapshot() *Snapshot {
	return p.current.Load()
}

// Replace installs s as the current snapshot.
func (p *Provider) Replace(s *Snapshot) {
	if s == nil {
		s = NewSnapshot(nil, "empty")
	}
	p.current.Store(s)
}

// Reload reads the bulk-data file and swaps it in. On failure the
// previous snapshot stays current.
func (p *Provider) Reload() error {
	if p.path == "" {
		return fmt.Errorf("no card data path configured")
	}

	start := time.Now()
	snap, err := LoadFile(p.path)
	if err != nil {
		return err
	}
	p.current.Store(snap)

	p.logger.Info("card database loaded",
		zap.String("path", p.path),
		zap.Int("cards", snap.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Watch reloads the snapshot whenever the bulk-data file is written or
// replaced. It blocks until ctx is cancelled.
func (p *Provider) Watch(ctx context.Context) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	// Watch the directory: downloads replace the file via rename.
	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch card data directory: %w", err)
	}

	target := filepath.Clean(p.path)
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(reloadDebounce)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("card data watcher error", zap.Error(werr))
		case <-pending:
			pending = nil
			if err := p.Reload(); err != nil {
				p.logger.Warn("card database reload failed", zap.Error(err))
			}
		}
	}
}

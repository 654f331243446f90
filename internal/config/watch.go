package config

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSettle coalesces the burst of events editors produce on save.
var watchSettle = 100 * time.Millisecond

// Watch calls fn with the freshly parsed configuration whenever the file at
// path is written, created or replaced. It watches the parent directory so
// editors that save via rename are seen. Parse failures are logged and the
// previous configuration stays in effect. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("config watcher closed")
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				pending = time.After(watchSettle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("config watcher closed")
			}
			log.Printf("config watch: %v", err)
		case <-pending:
			pending = nil
			cfg, err := LoadFile(path)
			if err != nil {
				log.Printf("config reload %s: %v", path, err)
				continue
			}
			fn(cfg)
		}
	}
}

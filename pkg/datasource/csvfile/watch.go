package csvfile

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/apex-racing/grcup-analytics/log"
)

const watchDebounce = 500 * time.Millisecond

// Watch calls onChange after files below root were created, written,
// removed or renamed. Bursts of events within the debounce interval
// result in one call. Watch blocks until ctx is done.
func (d *Dir) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// fsnotify does not watch recursively
	err = filepath.WalkDir(d.root, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	d.l.Info("watching data directory", log.String("root", d.root))

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			d.l.Debug("fs event", log.String("name", ev.Name), log.String("op", ev.Op.String()))
			if ev.Has(fsnotify.Create) {
				// new track or session directories need their own watch
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.Add(ev.Name)
				}
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			d.l.Warn("watch error", log.ErrorField(err))
		case <-timer.C:
			onChange()
		}
	}
}

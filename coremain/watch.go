package coremain

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 500 * time.Millisecond

// watch re-runs the steps of cfgFile after it changes, until ctx is done.
// Bursts of events are collapsed into a single run. A failing run is logged
// and does not stop the watcher.
func (m *Linkseq) watch(ctx context.Context, cfgFile string) error {
	if len(cfgFile) == 0 {
		return fmt.Errorf("no config file to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher, %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfgFile); err != nil {
		return fmt.Errorf("failed to watch config file %s, %w", cfgFile, err)
	}
	m.logger.Info("watching config file", zap.String("file", cfgFile))

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	resetTimer := func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(watchDebounce)
	}

	needReWatch := false
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case e, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			m.logger.Debug("config file event", zap.String("file", e.Name), zap.Stringer("op", e.Op))

			// Editors often replace the file, which drops the watch.
			if e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename) {
				needReWatch = true
				resetTimer()
				continue
			}
			if e.Has(fsnotify.Chmod) {
				continue
			}
			resetTimer()

		case <-timer.C:
			if needReWatch {
				needReWatch = false
				_ = watcher.Remove(cfgFile)
				if err := watcher.Add(cfgFile); err != nil {
					m.logger.Warn("failed to re-watch config file", zap.String("file", cfgFile), zap.Error(err))
				}
			}
			m.logger.Info("config file changed, re-running steps", zap.String("file", cfgFile))
			if err := m.rerun(ctx, cfgFile); err != nil {
				m.logger.Error("script failed", zap.Error(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

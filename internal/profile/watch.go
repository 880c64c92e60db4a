package profile

import (
	"context"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch fsnotify-watches dir for *.toml create/write/remove/rename events
// and, on each such event, reloads dir immediately (no debouncing) and
// hands onChange the fresh ProfileStore. Disabled unless the caller opts in via
// --watch-config. Errors from the watcher itself are logged; a failed
// individual reload is logged and simply skipped, leaving the previous
// store in effect.
func Watch(ctx context.Context, dir string, onChange func(*ProfileStore)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(ev.Name, ".toml") {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				store, err := LoadDir(dir)
				if err != nil {
					log.Warn().Err(err).Str("dir", dir).Msg("profile: reload after change failed, keeping previous profiles")
					continue
				}
				log.Info().Str("dir", dir).Str("file", ev.Name).Msg("profile: reloaded after config change")
				onChange(store)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("profile: watcher error")
			}
		}
	}()
	return nil
}

package tgspam

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchFiles calls onChange each time any of files is written or re-created, until ctx is done.
// Directories are watched instead of files, editors often replace the file on save.
func watchFiles(ctx context.Context, onChange func() error, files ...string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("[WARN] failed to create watcher: %v", err)
		return
	}
	defer watcher.Close()

	targets := map[string]struct{}{}
	dirs := map[string]struct{}{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			log.Printf("[WARN] can't resolve %s: %v", f, err)
			continue
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			log.Printf("[WARN] failed to add %s to watcher: %v", d, err)
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] stopping samples watcher, %v", ctx.Err())
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := targets[abs]; !ok {
				continue
			}
			log.Printf("[DEBUG] %s changed, reloading", event.Name)
			if err := onChange(); err != nil {
				log.Printf("[WARN] failed to reload %s: %v", event.Name, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[WARN] watcher error: %v", err)
		}
	}
}

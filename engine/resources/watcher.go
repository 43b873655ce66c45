package resources

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/scaffold/engine/core"
)

type watchedLocation struct {
	group string
	loc   Location
}

// watcher keeps the group indexes in sync with the filesystem.
type watcher struct {
	gm       *GroupManager
	fsnotify *fsnotify.Watcher

	mutex     sync.Mutex
	locations []watchedLocation
	isClosed  bool

	done chan struct{}
	wg   sync.WaitGroup
}

func newWatcher(gm *GroupManager) (*watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{
		gm:       gm,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

// watchLocationLocked starts watching a location, creating the watcher on
// first use. The manager lock must be held.
func (gm *GroupManager) watchLocationLocked(group string, loc Location) error {
	if gm.watcher == nil {
		w, err := newWatcher(gm)
		if err != nil {
			return err
		}
		gm.watcher = w
	}
	return gm.watcher.add(group, loc)
}

func (w *watcher) add(group string, loc Location) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isClosed {
		return errors.New("watcher already closed")
	}
	w.locations = append(w.locations, watchedLocation{group: group, loc: loc})
	if !loc.Recursive {
		return w.fsnotify.Add(loc.Path)
	}
	return w.watchRecursive(loc.Path)
}

// watchRecursive adds all directories under the given one to the watch list.
func (w *watcher) watchRecursive(path string) error {
	return filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsnotify.Add(walkPath)
		}
		return nil
	})
}

func (w *watcher) close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return nil
	}
	w.isClosed = true
	w.mutex.Unlock()

	close(w.done)
	w.wg.Wait()
	return w.fsnotify.Close()
}

func (w *watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			w.handleEvent(e)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("resource watcher: %s", err)

		case <-w.done:
			return
		}
	}
}

func (w *watcher) handleEvent(e fsnotify.Event) {
	owners := w.owners(e.Name)
	if len(owners) == 0 {
		return
	}

	if e.Op&fsnotify.Create != 0 {
		if s, err := os.Stat(e.Name); err == nil && s.IsDir() {
			for _, o := range owners {
				if o.loc.Recursive {
					w.mutex.Lock()
					if err := w.watchRecursive(e.Name); err != nil {
						core.LogWarn("resource watcher: %s", err)
					}
					w.mutex.Unlock()
					break
				}
			}
			return
		}
	}

	for _, o := range owners {
		// Can't stat a deleted file, removed and renamed paths are just dropped
		if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			w.gm.forget(o.group, e.Name)
			continue
		}
		if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
			w.gm.refresh(o.group, e.Name)
		}
	}
}

// owners returns the watched locations a path belongs to.
func (w *watcher) owners(path string) []watchedLocation {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	var out []watchedLocation
	for _, wl := range w.locations {
		dir := filepath.Dir(path)
		if dir == wl.loc.Path {
			out = append(out, wl)
			continue
		}
		if wl.loc.Recursive && strings.HasPrefix(dir, wl.loc.Path+string(filepath.Separator)) {
			out = append(out, wl)
		}
	}
	return out
}

// refresh indexes a created or modified file and reloads it when it was
// already loaded.
func (gm *GroupManager) refresh(group, path string) {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	g, ok := gm.groups[group]
	if !ok || g.status == GroupStatusUninitialised {
		return
	}
	gm.indexFileLocked(g, path)

	name := filepath.Base(path)
	res, loaded := g.loaded[name]
	if !loaded || res.FullPath != path {
		return
	}
	if err := gm.unloadLocked(res); err != nil {
		core.LogWarn("failed to unload %s: %s", name, err)
	}
	delete(g.loaded, name)
	if _, err := gm.loadLocked(g, name); err != nil {
		core.LogError("failed to reload %s: %s", name, err)
		return
	}
	core.LogInfo("Reloaded resource %s in group %s", name, group)
}

// forget drops a removed file from the group index.
func (gm *GroupManager) forget(group, path string) {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	g, ok := gm.groups[group]
	if !ok {
		return
	}
	name := filepath.Base(path)
	if g.index[name] != path {
		return
	}
	delete(g.index, name)
	if res, loaded := g.loaded[name]; loaded {
		if err := gm.unloadLocked(res); err != nil {
			core.LogWarn("failed to unload %s: %s", name, err)
		}
		delete(g.loaded, name)
	}
	core.LogDebug("Resource %s removed from group %s", name, group)
}

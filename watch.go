package fgdb

import (
	"github.com/fsnotify/fsnotify"
	. "github.com/stevegt/goadapt"
)

// Watcher surfaces filesystem events for a store dir.  Newly
// registered blocks show up as Create events for their
// content-addressed directories.
type Watcher struct {
	Events chan fsnotify.Event
	Errors chan error
	w      *fsnotify.Watcher
}

// Watch starts watching the store dir.
func (st *Store) Watch() (w *Watcher, err error) {
	defer Return(&err)

	fsw, err := fsnotify.NewWatcher()
	Ck(err)
	err = fsw.Add(st.Dir)
	Ck(err)

	return &Watcher{Events: fsw.Events, Errors: fsw.Errors, w: fsw}, nil
}

func (w *Watcher) Close() error {
	return w.w.Close()
}
